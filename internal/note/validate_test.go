package note

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotBlankRegistered(t *testing.T) {
	assert.NoError(t, noteValidate.Var("Groceries", "notblank"))
	assert.Error(t, noteValidate.Var(" \n\t", "notblank"))
}
