package persistence

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Store saves and loads named colony snapshots.
type Store interface {
	Save(data *SaveData) error
	Load(name string) (*SaveData, error)
	List() ([]Metadata, error)
	Close() error
}

const saveExt = ".antnest.zst"

// Header is the first line of a save file. It can be read without decoding
// the payload.
type Header struct {
	Format   int      `json:"format"`
	Tick     int64    `json:"tick"`
	Metadata Metadata `json:"metadata"`
}

// FileStore keeps one zstd compressed file per save name in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+saveExt)
}

// Save writes data under its save name, replacing any previous save.
// The file is written to a temporary name and renamed into place.
func (s *FileStore) Save(data *SaveData) error {
	if err := data.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	name := data.Metadata.SaveName
	if name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid save name %q", name)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeSave(tmp, data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

func writeSave(f *os.File, data *SaveData) error {
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 256*1024)

	hb, err := json.Marshal(Header{Format: data.Format, Tick: data.Clock.Ticks, Metadata: data.Metadata})
	if err != nil {
		return fmt.Errorf("marshal header: %w", err)
	}
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	if err := gob.NewEncoder(bw).Encode(data); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return enc.Close()
}

// Load reads and validates the named save.
func (s *FileStore) Load(name string) (*SaveData, error) {
	f, err := os.Open(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	defer dec.Close()
	br := bufio.NewReaderSize(dec, 256*1024)

	if _, err := readHeader(br); err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	data := &SaveData{}
	if err := gob.NewDecoder(br).Decode(data); err != nil {
		return nil, fmt.Errorf("load %s: gob decode: %w", name, err)
	}
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return data, nil
}

func readHeader(br *bufio.Reader) (Header, error) {
	var h Header
	line, err := br.ReadBytes('\n')
	if err != nil {
		return h, fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, fmt.Errorf("parse header: %w", err)
	}
	if h.Format != FormatVersion {
		return h, fmt.Errorf("unsupported save format %d", h.Format)
	}
	return h, nil
}

// List returns the metadata of every save, newest first. Unreadable files
// are skipped.
func (s *FileStore) List() ([]Metadata, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*"+saveExt))
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	out := make([]Metadata, 0, len(paths))
	for _, p := range paths {
		h, err := headerOf(p)
		if err != nil {
			continue
		}
		out = append(out, h.Metadata)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func headerOf(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return Header{}, err
	}
	defer dec.Close()
	return readHeader(bufio.NewReader(dec))
}

// Delete removes the named save.
func (s *FileStore) Delete(name string) error {
	err := os.Remove(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", name, ErrNotFound)
	}
	return err
}

// Close is a no-op; FileStore holds no open handles.
func (s *FileStore) Close() error { return nil }
