// Package snapshot keeps dated copies of scraped Wikipedia data so a check
// can run without hitting the API again.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/parquet-go/parquet-go"

	"github.com/ultimate-geography/ugwp/internal/geodata"
)

const (
	// DefaultPrefix starts every snapshot file name.
	DefaultPrefix = "data_wikipedia_"

	// DefaultIndexColumn heads the CSV index column.
	DefaultIndexColumn = "Country"

	dateLayout = "20060102"
)

// Snapshot file formats.
const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

// ErrNoSnapshot is returned by Latest when the cache holds no snapshot.
var ErrNoSnapshot = errors.New("no snapshot found")

// Info describes a snapshot file.
type Info struct {
	Path string
	Date time.Time
	Size int64
}

// Store manages snapshot files in a directory.
type Store struct {
	dir         string
	prefix      string
	format      string
	indexColumn string
}

// Option configures a Store.
type Option func(*Store)

// OptPrefix sets the file name prefix.
func OptPrefix(p string) Option {
	return func(s *Store) {
		if p != "" {
			s.prefix = p
		}
	}
}

// OptFormat sets the format used by Save.
func OptFormat(f string) Option {
	return func(s *Store) {
		if f != "" {
			s.format = strings.ToLower(f)
		}
	}
}

// OptIndexColumn sets the CSV index column name.
func OptIndexColumn(c string) Option {
	return func(s *Store) {
		if c != "" {
			s.indexColumn = c
		}
	}
}

// NewStore creates a store in dir.
func NewStore(dir string, opts ...Option) *Store {
	if dir == "" {
		dir = "."
	}
	s := &Store{
		dir:         dir,
		prefix:      DefaultPrefix,
		format:      FormatCSV,
		indexColumn: DefaultIndexColumn,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the snapshot directory.
func (s *Store) Dir() string {
	return s.dir
}

// List returns the snapshots in the directory, oldest first.
func (s *Store) List() ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot directory: %w", err)
	}

	var res []Info
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		date, ok := s.parseName(e.Name())
		if !ok {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat snapshot %s: %w", e.Name(), err)
		}
		res = append(res, Info{
			Path: filepath.Join(s.dir, e.Name()),
			Date: date,
			Size: fi.Size(),
		})
	}
	slices.SortFunc(res, func(a, b Info) int {
		return strings.Compare(filepath.Base(a.Path), filepath.Base(b.Path))
	})
	return res, nil
}

// Latest returns the newest snapshot.
func (s *Store) Latest() (Info, error) {
	all, err := s.List()
	if err != nil {
		return Info{}, err
	}
	if len(all) == 0 {
		return Info{}, ErrNoSnapshot
	}
	return all[len(all)-1], nil
}

// Clear removes all snapshots and returns how many were deleted.
func (s *Store) Clear() (int, error) {
	all, err := s.List()
	if err != nil {
		return 0, err
	}
	for i, info := range all {
		if err := os.Remove(info.Path); err != nil {
			return i, fmt.Errorf("failed to remove snapshot: %w", err)
		}
		slog.Debug("Removed snapshot", "path", info.Path)
	}
	return len(all), nil
}

// Load reads a snapshot, choosing the format by extension.
func (s *Store) Load(path string) (*geodata.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	var t *geodata.Table
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		t, err = geodata.ReadCSV(f, s.indexColumn, nil)
	case ".parquet":
		t, err = readParquet(f)
	default:
		return nil, fmt.Errorf("unsupported snapshot format: %s (supported: .csv, .parquet)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}

	if date, ok := s.parseName(filepath.Base(path)); ok {
		slog.Info("Loaded Wikipedia snapshot", "path", path, "age", humanize.Time(date))
	}
	return t, nil
}

// Save writes t as the snapshot for date and returns its path.
func (s *Store) Save(t *geodata.Table, date time.Time) (string, error) {
	ext := "." + s.format
	if s.format != FormatCSV && s.format != FormatParquet {
		return "", fmt.Errorf("unsupported snapshot format: %s", s.format)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	path := filepath.Join(s.dir, s.prefix+date.Format(dateLayout)+ext)
	tmp, err := os.CreateTemp(s.dir, ".snapshot-*")
	if err != nil {
		return "", fmt.Errorf("failed to create snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	switch s.format {
	case FormatCSV:
		err = geodata.WriteCSV(tmp, t, s.indexColumn)
	case FormatParquet:
		err = writeParquet(tmp, t)
	}
	if err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to save snapshot: %w", err)
	}

	slog.Info("Saved Wikipedia snapshot", "path", path,
		"cells", humanize.Comma(int64(len(t.Entities())*len(t.Attributes()))))
	return path, nil
}

func (s *Store) parseName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, s.prefix) {
		return time.Time{}, false
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".csv" && ext != ".parquet" {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, s.prefix), filepath.Ext(name))
	date, err := time.Parse(dateLayout, stamp)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// cellRecord is one cell of a table in long format.
type cellRecord struct {
	Entity    string  `parquet:"entity"`
	Attribute string  `parquet:"attribute"`
	Value     *string `parquet:"value,optional"`
}

func writeParquet(w io.Writer, t *geodata.Table) error {
	entities, attributes := t.Entities(), t.Attributes()
	rows := make([]cellRecord, 0, len(entities)*len(attributes))
	for _, e := range entities {
		for _, a := range attributes {
			rec := cellRecord{Entity: e, Attribute: a}
			if v := t.Get(e, a); v.Present {
				text := v.Text
				rec.Value = &text
			}
			rows = append(rows, rec)
		}
	}

	pw := parquet.NewGenericWriter[cellRecord](w)
	if _, err := pw.Write(rows); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

func readParquet(f *os.File) (*geodata.Table, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet snapshot opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[cellRecord](pf)
	defer reader.Close()

	var records []cellRecord
	for {
		// optional values are pointers, so each batch gets its own buffer
		rows := make([]cellRecord, 128)
		n, err := reader.Read(rows)
		records = append(records, rows[:n]...)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
		if n == 0 {
			break
		}
	}

	var entities, attributes []string
	seenE, seenA := make(map[string]bool), make(map[string]bool)
	for _, r := range records {
		if !seenE[r.Entity] {
			seenE[r.Entity] = true
			entities = append(entities, r.Entity)
		}
		if !seenA[r.Attribute] {
			seenA[r.Attribute] = true
			attributes = append(attributes, r.Attribute)
		}
	}

	t, err := geodata.NewTable(entities, attributes)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if r.Value != nil {
			if err := t.Set(r.Entity, r.Attribute, geodata.Some(*r.Value)); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}
