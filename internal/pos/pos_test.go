package pos

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineIndex_Position(t *testing.T) {
	src := []byte("abc\ndefg\nh")
	li := NewLineIndex(src)

	tests := []struct {
		name   string
		offset int
		want   Position
	}{
		{"start of file", 0, Position{Offset: 0, Line: 1, Column: 1}},
		{"mid first line", 2, Position{Offset: 2, Line: 1, Column: 3}},
		{"start of second line", 4, Position{Offset: 4, Line: 2, Column: 1}},
		{"mid second line", 6, Position{Offset: 6, Line: 2, Column: 3}},
		{"start of third line", 9, Position{Offset: 9, Line: 3, Column: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, li.Position(tt.offset))
		})
	}
}

func TestLineIndex_ContextLine(t *testing.T) {
	src := []byte("fn @main() -> i32 {\n  %0: ret 0\n}\n")
	li := NewLineIndex(src)

	assert.Equal(t, "fn @main() -> i32 {", li.ContextLine(0))
	assert.Equal(t, "  %0: ret 0", li.ContextLine(25))
}

func TestPosition_String(t *testing.T) {
	p := Position{Line: 3, Column: 7}
	assert.Equal(t, "3:7", p.String())
}
