package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInside(t *testing.T) {
	root := filepath.Join("/ws", "comprobantes")
	assert.True(t, inside(root, filepath.Join(root, "a.pdf")))
	assert.True(t, inside(root, root))
	assert.False(t, inside(root, filepath.Join("/ws", "entrada", "a.pdf")))
	assert.False(t, inside(root, filepath.Join("/ws", "comprobantes-viejos", "a.pdf")))
}
