package repo

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/grit-vcs/grit/pkg/object"
)

// ErrIndexCorrupt indicates the on-disk index file could not be decoded:
// bad magic, unsupported version, or a truncated or malformed entry.
var ErrIndexCorrupt = errors.New("corrupt index")

// Index file format, loosely after git's DIRC layout but with SHA-256 IDs:
//
//	"GIDX" | version u32 | entry count u32
//	per entry (sorted by path, ascending bytewise):
//	  mtime sec u32 | mtime nsec u32 | mode u32 | size u32
//	  object id (32 raw bytes) | flags u16
//	  path bytes | NUL | zero padding to an 8-byte boundary
//
// The low 12 bits of flags hold min(len(path), 0xFFF); longer paths are
// delimited by the NUL alone. All integers are big-endian.
const (
	indexMagic   = "GIDX"
	indexVersion = 1

	indexNameMask      = 0x0fff
	indexEntryFixedLen = 4 + 4 + 4 + 4 + object.RawHashLen + 2
)

// IndexEntry is one row of the staging index: a tracked path and the
// metadata of the blob staged for it.
type IndexEntry struct {
	Path      string
	ID        object.Hash // blob hash as staged
	Mode      uint32      // git-style mode (0o100644 / 0o100755)
	Size      uint32
	MtimeSec  uint32
	MtimeNsec uint32
	Flags     uint16
}

// Index is the staging area: the proposed content of the next commit.
// Entries are unique by path and kept sorted by path.
type Index struct {
	entries []*IndexEntry
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{}
}

// Len returns the number of entries.
func (ix *Index) Len() int { return len(ix.entries) }

// search returns the insertion position for path and whether it is present.
func (ix *Index) search(path string) (int, bool) {
	i := sort.Search(len(ix.entries), func(i int) bool {
		return ix.entries[i].Path >= path
	})
	return i, i < len(ix.entries) && ix.entries[i].Path == path
}

// Get returns the entry for path, if any.
func (ix *Index) Get(path string) (*IndexEntry, bool) {
	i, ok := ix.search(path)
	if !ok {
		return nil, false
	}
	return ix.entries[i], true
}

// Upsert inserts or replaces the entry for e.Path, keeping entries sorted.
func (ix *Index) Upsert(e IndexEntry) {
	e.Flags = nameFlags(e.Path, e.Flags)
	i, ok := ix.search(e.Path)
	if ok {
		ix.entries[i] = &e
		return
	}
	ix.entries = append(ix.entries, nil)
	copy(ix.entries[i+1:], ix.entries[i:])
	ix.entries[i] = &e
}

// Remove deletes the entry for path, reporting whether it existed.
func (ix *Index) Remove(path string) bool {
	i, ok := ix.search(path)
	if !ok {
		return false
	}
	ix.entries = append(ix.entries[:i], ix.entries[i+1:]...)
	return true
}

// Entries returns the entries sorted by path. The slice is a copy; the
// pointed-to entries are shared.
func (ix *Index) Entries() []*IndexEntry {
	out := make([]*IndexEntry, len(ix.entries))
	copy(out, ix.entries)
	return out
}

func nameFlags(path string, flags uint16) uint16 {
	nameLen := len(path)
	if nameLen > indexNameMask {
		nameLen = indexNameMask
	}
	return (flags &^ uint16(indexNameMask)) | uint16(nameLen)
}

func (r *Repo) indexPath() string {
	return filepath.Join(r.GritDir, "index")
}

// ReadIndex loads the staging index from .grit/index. A missing file yields
// an empty index, not an error: a freshly initialized repository has no
// staged entries yet.
func (r *Repo) ReadIndex() (*Index, error) {
	data, err := os.ReadFile(r.indexPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewIndex(), nil
		}
		return nil, fmt.Errorf("read index: %w", err)
	}
	ix, err := decodeIndex(data)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	return ix, nil
}

// WriteIndex atomically writes the full staging index: the encoded bytes go
// to a temp file which is renamed over .grit/index, so a reader never
// observes a partial write.
func (r *Repo) WriteIndex(ix *Index) error {
	data, err := encodeIndex(ix)
	if err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	tmp, err := os.CreateTemp(r.GritDir, ".index-tmp-*")
	if err != nil {
		return fmt.Errorf("write index: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write index: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write index: close: %w", err)
	}

	if err := os.Rename(tmpName, r.indexPath()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write index: rename: %w", err)
	}
	return nil
}

func encodeIndex(ix *Index) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(indexMagic)
	writeU32(&buf, indexVersion)
	writeU32(&buf, uint32(len(ix.entries)))

	for _, e := range ix.entries {
		writeU32(&buf, e.MtimeSec)
		writeU32(&buf, e.MtimeNsec)
		writeU32(&buf, e.Mode)
		writeU32(&buf, e.Size)

		raw, err := e.ID.Raw()
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", e.Path, err)
		}
		buf.Write(raw)

		var flags [2]byte
		binary.BigEndian.PutUint16(flags[:], nameFlags(e.Path, e.Flags))
		buf.Write(flags[:])

		buf.WriteString(e.Path)
		buf.WriteByte(0)

		consumed := indexEntryFixedLen + len(e.Path) + 1
		for pad := (8 - consumed%8) % 8; pad > 0; pad-- {
			buf.WriteByte(0)
		}
	}
	return buf.Bytes(), nil
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func decodeIndex(data []byte) (*Index, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("truncated header: %w", ErrIndexCorrupt)
	}
	if string(data[:4]) != indexMagic {
		return nil, fmt.Errorf("bad magic %q: %w", data[:4], ErrIndexCorrupt)
	}
	version := binary.BigEndian.Uint32(data[4:8])
	if version != indexVersion {
		return nil, fmt.Errorf("unsupported version %d: %w", version, ErrIndexCorrupt)
	}
	count := binary.BigEndian.Uint32(data[8:12])
	rest := data[12:]

	ix := &Index{entries: make([]*IndexEntry, 0, count)}
	for i := uint32(0); i < count; i++ {
		if len(rest) < indexEntryFixedLen {
			return nil, fmt.Errorf("truncated entry %d: %w", i, ErrIndexCorrupt)
		}
		e := &IndexEntry{
			MtimeSec:  binary.BigEndian.Uint32(rest[0:4]),
			MtimeNsec: binary.BigEndian.Uint32(rest[4:8]),
			Mode:      binary.BigEndian.Uint32(rest[8:12]),
			Size:      binary.BigEndian.Uint32(rest[12:16]),
		}
		id, err := object.HashFromRaw(rest[16 : 16+object.RawHashLen])
		if err != nil {
			return nil, fmt.Errorf("entry %d: %v: %w", i, err, ErrIndexCorrupt)
		}
		e.ID = id
		e.Flags = binary.BigEndian.Uint16(rest[16+object.RawHashLen : indexEntryFixedLen])
		rest = rest[indexEntryFixedLen:]

		nameLen := int(e.Flags & indexNameMask)
		if nameLen < indexNameMask {
			if len(rest) < nameLen+1 || rest[nameLen] != 0 {
				return nil, fmt.Errorf("entry %d: path not NUL-terminated: %w", i, ErrIndexCorrupt)
			}
			e.Path = string(rest[:nameLen])
			rest = rest[nameLen+1:]
		} else {
			// Paths at or past the 12-bit limit are delimited by NUL alone.
			nul := bytes.IndexByte(rest, 0)
			if nul < 0 {
				return nil, fmt.Errorf("entry %d: path not NUL-terminated: %w", i, ErrIndexCorrupt)
			}
			e.Path = string(rest[:nul])
			rest = rest[nul+1:]
		}

		consumed := indexEntryFixedLen + len(e.Path) + 1
		pad := (8 - consumed%8) % 8
		if len(rest) < pad {
			return nil, fmt.Errorf("entry %d: truncated padding: %w", i, ErrIndexCorrupt)
		}
		rest = rest[pad:]

		ix.entries = append(ix.entries, e)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%d trailing bytes: %w", len(rest), ErrIndexCorrupt)
	}

	// Entries are written sorted; keep the invariant even for files produced
	// by other writers.
	sort.Slice(ix.entries, func(a, b int) bool { return ix.entries[a].Path < ix.entries[b].Path })
	return ix, nil
}
