package rand

import (
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSysID(t *testing.T) {
	id := SysID()
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}$`), id)
	assert.NotEqual(t, id, SysID())
}

func TestNumber(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^INC[0-9]{7}$`), Number("INC"))
}

func TestSysIDConcurrent(t *testing.T) {
	const workers = 8
	ids := make(chan string, workers*50)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				ids <- SysID()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		assert.Len(t, id, 32)
		seen[id] = true
	}
	assert.Len(t, seen, workers*50)
}
