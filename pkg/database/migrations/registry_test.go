package migrations

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestRegistry_RunsInOrderAndStopsOnFailure(t *testing.T) {
	r := &Registry{}
	var ran []string

	r.Register("first", func(*gorm.DB) error { ran = append(ran, "first"); return nil })
	r.Register("second", func(*gorm.DB) error { return errors.New("boom") })
	r.Register("third", func(*gorm.DB) error { ran = append(ran, "third"); return nil })

	err := r.Run(nil, nil)

	assert.EqualError(t, err, "migration second failed: boom")
	assert.Equal(t, []string{"first"}, ran)
}

func TestRegistry_ReplacesDuplicateNames(t *testing.T) {
	r := &Registry{}
	calls := 0

	r.Register("index", func(*gorm.DB) error { return errors.New("old") })
	r.Register("index", func(*gorm.DB) error { calls++; return nil })

	assert.Equal(t, []string{"index"}, r.Names())
	assert.NoError(t, r.Run(nil, nil))
	assert.Equal(t, 1, calls)
}
