package sink

import "bytes"

// fakeFileHelper is an in-memory FileHelper that records every
// operation and can be told to fail specific steps. Rotation tests
// use it to drive error paths no real filesystem produces on demand.
type fakeFileHelper struct {
	files   map[string]*bytes.Buffer
	current string
	open    bool

	opens   []string
	flushes int
	closes  int
	removed []string
	renamed [][2]string

	failOpen   map[string]error
	failRemove map[string]error
	failRename map[string]error
}

var _ FileHelper = (*fakeFileHelper)(nil)

func newFakeFileHelper() *fakeFileHelper {
	return &fakeFileHelper{files: map[string]*bytes.Buffer{}}
}

// seed creates a file with the given content, as if left by an
// earlier run.
func (f *fakeFileHelper) seed(path, content string) {
	f.files[path] = bytes.NewBufferString(content)
}

func (f *fakeFileHelper) content(path string) string {
	buf, ok := f.files[path]
	if !ok {
		return ""
	}
	return buf.String()
}

func (f *fakeFileHelper) Open(path string, truncate bool) error {
	if err := f.failOpen[path]; err != nil {
		return err
	}
	if truncate || f.files[path] == nil {
		f.files[path] = &bytes.Buffer{}
	}
	f.current = path
	f.open = true
	f.opens = append(f.opens, path)
	return nil
}

func (f *fakeFileHelper) Reopen(truncate bool) error {
	if f.current == "" {
		return ErrNotOpen
	}
	return f.Open(f.current, truncate)
}

func (f *fakeFileHelper) Write(p []byte) (int, error) {
	if !f.open {
		return 0, ErrNotOpen
	}
	return f.files[f.current].Write(p)
}

func (f *fakeFileHelper) Flush() error {
	f.flushes++
	return nil
}

func (f *fakeFileHelper) Close() error {
	f.open = false
	f.closes++
	return nil
}

func (f *fakeFileHelper) Size() (int64, error) {
	if !f.open {
		return 0, ErrNotOpen
	}
	return int64(f.files[f.current].Len()), nil
}

func (f *fakeFileHelper) Exists(path string) bool {
	_, ok := f.files[path]
	return ok
}

func (f *fakeFileHelper) Remove(path string) error {
	if err := f.failRemove[path]; err != nil {
		return err
	}
	delete(f.files, path)
	f.removed = append(f.removed, path)
	return nil
}

func (f *fakeFileHelper) Rename(src, dst string) error {
	if err := f.failRename[src]; err != nil {
		return err
	}
	f.files[dst] = f.files[src]
	delete(f.files, src)
	f.renamed = append(f.renamed, [2]string{src, dst})
	return nil
}
