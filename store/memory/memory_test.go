package memory_test

import (
	"testing"

	"github.com/versalles/versalles/store"
	"github.com/versalles/versalles/store/memory"
	"github.com/versalles/versalles/store/storetest"
)

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return memory.New()
	})
}
