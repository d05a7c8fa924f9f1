package json

import (
	"errors"
	"testing"

	"github.com/salesintel/dealrisk/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type artifact struct {
	AUC  float64            `json:"auc"`
	Tags map[string]float64 `json:"tags"`
}

func TestBlob_StoreLoad(t *testing.T) {
	blob := NewJsonBlob(t.TempDir())
	key := storage.Key{Run: "run-1", Label: "evaluation"}

	in := artifact{AUC: 0.91, Tags: map[string]float64{"lost_f1": 0.8}}
	require.NoError(t, blob.Store(key, in))

	var out artifact
	require.NoError(t, blob.Load(key, &out))
	assert.Equal(t, in, out)
}

func TestBlob_LoadMissing(t *testing.T) {
	blob := NewJsonBlob(t.TempDir())

	var out artifact
	err := blob.Load(storage.Key{Run: "nope", Label: "evaluation"}, &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.NotFoundErr))
}

func TestVoidStorage(t *testing.T) {
	void := storage.NewVoidStorage()
	assert.NoError(t, void.Store(storage.Key{Run: "r", Label: "l"}, artifact{}))
	assert.Error(t, void.Load(storage.Key{Run: "r", Label: "l"}, &artifact{}))
}
