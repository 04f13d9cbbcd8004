package vocab

import (
	"fmt"

	"github.com/dgallion1/versefix/internal/cachefile"
	"github.com/dgallion1/versefix/internal/errs"
)

// Store persists a Vocabulary as the wordlist artifact.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the cached vocabulary. It returns errs.ErrNotFound when there
// is no artifact and *errs.CorruptCacheError when it does not parse.
func (s *Store) Load() (*Vocabulary, error) {
	data, err := cachefile.Read(s.path)
	if err != nil {
		return nil, err
	}
	v, err := Decode(data)
	if err != nil {
		return nil, &errs.CorruptCacheError{Path: s.path, Err: err}
	}
	return v, nil
}

// Save replaces the artifact with v.
func (s *Store) Save(v *Vocabulary) error {
	data, err := v.Encode()
	if err != nil {
		return err
	}
	if err := cachefile.Write(s.path, data); err != nil {
		return fmt.Errorf("save wordlist: %w", err)
	}
	return nil
}
