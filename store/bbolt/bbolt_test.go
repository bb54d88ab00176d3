package bbolt_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/versalles/versalles/store"
	"github.com/versalles/versalles/store/bbolt"
	"github.com/versalles/versalles/store/storetest"
)

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := bbolt.NewFromFile(filepath.Join(t.TempDir(), "versalles.db"), nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close(context.Background()) })
		return s
	})
}
