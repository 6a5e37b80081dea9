package sink

import (
	"fmt"
	"strings"
	"time"
)

// FilenameParts is a path split into base and extension. The joining
// dot belongs to neither part.
type FilenameParts struct {
	Base string
	Ext  string
}

// SplitPath splits a path into base and extension. The extension is
// the text after the last dot that occurs after the last path
// separator; both '/' and '\' count as separators so Windows-style
// paths split identically on every platform. A dot inside a directory
// segment is never an extension delimiter. When the filename component
// has no dot, defaultExt is used.
func SplitPath(path, defaultExt string) FilenameParts {
	sep := strings.LastIndexAny(path, `/\`)
	if dot := strings.LastIndexByte(path, '.'); dot > sep {
		return FilenameParts{Base: path[:dot], Ext: path[dot+1:]}
	}
	return FilenameParts{Base: path, Ext: defaultExt}
}

// Indexed returns the backup-chain name for an index: "base.ext" for
// the active file at index 0, "base.N.ext" beyond it.
func (p FilenameParts) Indexed(index int) string {
	if index == 0 {
		return p.Base + "." + p.Ext
	}
	return fmt.Sprintf("%s.%d.%s", p.Base, index, p.Ext)
}

// NameCalculator produces the dated filename a time-triggered sink
// opens when it rotates. Pure string computation, no I/O.
type NameCalculator func(parts FilenameParts, t time.Time) string

// MinuteNameCalculator names files base_YYYY-MM-DD_hh-mm.ext.
func MinuteNameCalculator(parts FilenameParts, t time.Time) string {
	return fmt.Sprintf("%s_%s.%s", parts.Base, t.Format("2006-01-02_15-04"), parts.Ext)
}

// DateOnlyNameCalculator names files base_YYYY-MM-DD.ext.
func DateOnlyNameCalculator(parts FilenameParts, t time.Time) string {
	return fmt.Sprintf("%s_%s.%s", parts.Base, t.Format("2006-01-02"), parts.Ext)
}
