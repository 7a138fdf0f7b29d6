package persistence

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/khoahotran/folio/internal/domain/view"
)

func TestDedupKey(t *testing.T) {
	profileID := uuid.New()
	v := view.View{ProfileID: profileID, VisitorID: "203.0.113.7-Mozilla/5.0"}

	key := dedupKey(v)
	assert.True(t, strings.HasPrefix(key, viewDedupPrefix+profileID.String()+":"))
	assert.NotContains(t, key, "203.0.113.7")
	assert.Equal(t, key, dedupKey(v))

	other := v
	other.VisitorID = "203.0.113.8-Mozilla/5.0"
	assert.NotEqual(t, key, dedupKey(other))
}
