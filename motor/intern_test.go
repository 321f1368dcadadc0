package motor

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterner_ReturnsCanonicalCopy(t *testing.T) {
	in := NewInterner()

	a := in.Intern("page_" + "details")
	b := in.Intern(fmt.Sprintf("page_%s", "details"))

	assert.Equal(t, a, b)
	assert.Equal(t, 1, in.Len())
	assert.Equal(t, "", in.Intern(""))
	assert.Equal(t, 1, in.Len(), "empty strings are not stored")
}

func TestInterner_Concurrent(t *testing.T) {
	in := NewInterner()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				in.Intern(fmt.Sprintf("metric_%d", i%100))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, in.Len())
}
