package pairs

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ulikunitz/xz"

	"github.com/dgallion1/versefix/internal/cachefile"
	"github.com/dgallion1/versefix/internal/errs"
)

// Format identifies the wordpairs layout.
const Format = "wordpairs/v1"

// header is the first line of the decompressed wordpairs artifact.
type header struct {
	Format     string `json:"format"`
	Vocabulary string `json:"vocabulary"`
	Count      int    `json:"count"`
}

// Store persists an Index as the xz-compressed wordpairs artifact.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the cached index. It returns errs.ErrNotFound when there is no
// artifact and *errs.CorruptCacheError when it cannot be decoded.
func (s *Store) Load() (*Index, error) {
	data, err := cachefile.Read(s.path)
	if err != nil {
		return nil, err
	}
	ix, err := Decode(data)
	if err != nil {
		return nil, &errs.CorruptCacheError{Path: s.path, Err: err}
	}
	return ix, nil
}

// Save replaces the artifact with ix.
func (s *Store) Save(ix *Index) error {
	data, err := Encode(ix)
	if err != nil {
		return err
	}
	if err := cachefile.Write(s.path, data); err != nil {
		return fmt.Errorf("save wordpairs: %w", err)
	}
	return nil
}

// Encode writes the header line and the sorted pairs, one per line, through
// an xz compressor. Equal indexes encode to identical bytes.
func Encode(ix *Index) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("create xz writer: %w", err)
	}
	w := bufio.NewWriterSize(zw, 1<<16)

	head, err := json.Marshal(header{Format: Format, Vocabulary: ix.source, Count: len(ix.pairs)})
	if err != nil {
		return nil, fmt.Errorf("encode header: %w", err)
	}
	w.Write(head)
	w.WriteByte('\n')
	for _, p := range ix.sorted() {
		w.WriteString(p)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("write wordpairs: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close xz writer: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses wordpairs bytes.
func Decode(data []byte) (*Index, error) {
	zr, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xz stream: %w", err)
	}
	r := bufio.NewReaderSize(zr, 1<<16)

	line, err := r.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	var h header
	if err := json.Unmarshal([]byte(line), &h); err != nil {
		return nil, fmt.Errorf("decode header: %w", err)
	}
	if h.Format != Format {
		return nil, fmt.Errorf("unsupported format %q", h.Format)
	}
	if h.Count < 0 {
		return nil, fmt.Errorf("negative pair count %d", h.Count)
	}

	ix := &Index{
		pairs:  make(map[string]struct{}, min(h.Count, 1<<24)),
		source: h.Vocabulary,
	}
	for {
		line, err := r.ReadString('\n')
		if err == io.EOF {
			if line != "" {
				return nil, fmt.Errorf("truncated pair %q", line)
			}
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read pairs: %w", err)
		}
		ix.pairs[line[:len(line)-1]] = struct{}{}
	}
	if len(ix.pairs) != h.Count {
		return nil, fmt.Errorf("header declares %d pairs, found %d", h.Count, len(ix.pairs))
	}
	return ix, nil
}
