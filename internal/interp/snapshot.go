package interp

import (
	"io"

	"gopkg.in/yaml.v3"
)

// snapshot is the YAML-serializable shape of an Environment at a point in
// time: an inspection aid analogous to the teacher's AST/ASM
// pretty-printers, not something on the hot evaluation path.
type snapshot struct {
	Globals    map[string]string `yaml:"globals"`
	Cells      []int32           `yaml:"cells"`
	FrameDepth int               `yaml:"frame_depth"`
}

// DumpYAML serializes env's globals (by their printable form), the live
// prefix of the cell store, and the current frame depth to w as YAML.
func (e *Environment) DumpYAML(w io.Writer) error {
	s := snapshot{
		Globals:    make(map[string]string, len(e.globals)),
		Cells:      e.CellsSnapshot(),
		FrameDepth: e.FrameDepth(),
	}
	for name, v := range e.globals {
		s.Globals[name] = v.String()
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(s)
}
