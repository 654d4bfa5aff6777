package object

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Blob
// ---------------------------------------------------------------------------

// MarshalBlob serializes a Blob to raw bytes (identity).
func MarshalBlob(b *Blob) []byte {
	out := make([]byte, len(b.Data))
	copy(out, b.Data)
	return out
}

// UnmarshalBlob deserializes raw bytes into a Blob.
func UnmarshalBlob(data []byte) (*Blob, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return &Blob{Data: out}, nil
}

// ---------------------------------------------------------------------------
// TreeObj
// ---------------------------------------------------------------------------

// MarshalTree serializes a TreeObj. Entries are sorted by Name (bytewise
// ascending) so the byte form is a pure function of the entry set. Each
// entry is:
//
//	mode SP name NUL rawhash(32 bytes)
func MarshalTree(tr *TreeObj) []byte {
	sorted := make([]TreeEntry, len(tr.Entries))
	copy(sorted, tr.Entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	var buf bytes.Buffer
	for _, e := range sorted {
		mode := e.Mode
		if mode == "" {
			mode = TreeModeFile
		}
		buf.WriteString(mode)
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		raw, err := e.ID.Raw()
		if err != nil {
			// Entries are produced from store writes and always carry valid
			// hashes; an invalid one here would poison the object store.
			panic(fmt.Sprintf("marshal tree: entry %q: %v", e.Name, err))
		}
		buf.Write(raw)
	}
	return buf.Bytes()
}

// UnmarshalTree parses a TreeObj from its serialized form. Entry order is
// preserved as read; out-of-order entries are accepted (they are never
// produced on write).
func UnmarshalTree(data []byte) (*TreeObj, error) {
	tr := &TreeObj{}
	rest := data
	for len(rest) > 0 {
		sp := bytes.IndexByte(rest, ' ')
		if sp < 0 {
			return nil, fmt.Errorf("unmarshal tree: entry missing mode separator: %w", ErrMalformedObject)
		}
		mode := string(rest[:sp])
		if err := validateTreeMode(mode); err != nil {
			return nil, fmt.Errorf("unmarshal tree: %v: %w", err, ErrMalformedObject)
		}
		rest = rest[sp+1:]

		nul := bytes.IndexByte(rest, 0)
		if nul < 0 {
			return nil, fmt.Errorf("unmarshal tree: entry missing name terminator: %w", ErrMalformedObject)
		}
		name := string(rest[:nul])
		if name == "" {
			return nil, fmt.Errorf("unmarshal tree: empty entry name: %w", ErrMalformedObject)
		}
		rest = rest[nul+1:]

		if len(rest) < RawHashLen {
			return nil, fmt.Errorf("unmarshal tree: entry %q: truncated hash: %w", name, ErrMalformedObject)
		}
		id, err := HashFromRaw(rest[:RawHashLen])
		if err != nil {
			return nil, fmt.Errorf("unmarshal tree: entry %q: %v: %w", name, err, ErrMalformedObject)
		}
		rest = rest[RawHashLen:]

		tr.Entries = append(tr.Entries, TreeEntry{Mode: mode, Name: name, ID: id})
	}
	return tr, nil
}

func validateTreeMode(mode string) error {
	switch mode {
	case TreeModeDir, TreeModeFile, TreeModeExecutable:
		return nil
	}
	return fmt.Errorf("unknown mode %q", mode)
}

// ---------------------------------------------------------------------------
// CommitObj
// ---------------------------------------------------------------------------

// MarshalCommit serializes a CommitObj:
//
//	tree H
//	parent H     (zero or more)
//	author NAME TS
//	committer NAME TS
//	signature S  (optional)
//
//	message
func MarshalCommit(c *CommitObj) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", string(c.TreeHash))
	for _, p := range c.Parents {
		fmt.Fprintf(&buf, "parent %s\n", string(p))
	}
	fmt.Fprintf(&buf, "author %s %d\n", c.Author, c.Timestamp)
	fmt.Fprintf(&buf, "committer %s %d\n", c.Committer, c.CommitterTimestamp)
	if strings.TrimSpace(c.Signature) != "" {
		fmt.Fprintf(&buf, "signature %s\n", c.Signature)
	}
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	return buf.Bytes()
}

// CommitSigningPayload returns the canonical bytes a CommitSigner signs:
// the commit serialized without its signature header.
func CommitSigningPayload(c *CommitObj) []byte {
	unsigned := *c
	unsigned.Signature = ""
	return MarshalCommit(&unsigned)
}

// UnmarshalCommit parses a CommitObj from its serialized form.
func UnmarshalCommit(data []byte) (*CommitObj, error) {
	header, message, err := splitHeaderBody(data, "commit")
	if err != nil {
		return nil, err
	}

	c := &CommitObj{Message: message}
	seenTree := false
	seenAuthor := false
	seenCommitter := false
	for _, line := range strings.Split(header, "\n") {
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("unmarshal commit: malformed header line %q: %w", line, ErrMalformedObject)
		}
		switch key {
		case "tree":
			c.TreeHash = Hash(val)
			seenTree = true
		case "parent":
			c.Parents = append(c.Parents, Hash(val))
		case "author":
			c.Author, c.Timestamp, err = parsePersonStamp(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: author: %v: %w", err, ErrMalformedObject)
			}
			seenAuthor = true
		case "committer":
			c.Committer, c.CommitterTimestamp, err = parsePersonStamp(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: committer: %v: %w", err, ErrMalformedObject)
			}
			seenCommitter = true
		case "signature":
			c.Signature = val
		default:
			return nil, fmt.Errorf("unmarshal commit: unknown header key %q: %w", key, ErrMalformedObject)
		}
	}
	if !seenTree || !seenAuthor || !seenCommitter {
		return nil, fmt.Errorf("unmarshal commit: missing required header field: %w", ErrMalformedObject)
	}
	return c, nil
}

// parsePersonStamp splits "NAME TS" where NAME may itself contain spaces;
// the timestamp is the final space-separated token.
func parsePersonStamp(val string) (string, int64, error) {
	idx := strings.LastIndexByte(val, ' ')
	if idx < 0 {
		return "", 0, fmt.Errorf("missing timestamp in %q", val)
	}
	name := val[:idx]
	ts, err := strconv.ParseInt(val[idx+1:], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("bad timestamp in %q: %v", val, err)
	}
	return name, ts, nil
}

// ---------------------------------------------------------------------------
// TagObj
// ---------------------------------------------------------------------------

// MarshalTag serializes an annotated TagObj:
//
//	object H
//	type KIND
//	tag NAME
//	tagger NAME TS
//
//	message
func MarshalTag(t *TagObj) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "object %s\n", string(t.TargetHash))
	fmt.Fprintf(&buf, "type %s\n", string(t.TargetType))
	fmt.Fprintf(&buf, "tag %s\n", t.Name)
	fmt.Fprintf(&buf, "tagger %s %d\n", t.Tagger, t.Timestamp)
	buf.WriteByte('\n')
	buf.WriteString(t.Message)
	return buf.Bytes()
}

// UnmarshalTag parses an annotated TagObj from its serialized form.
func UnmarshalTag(data []byte) (*TagObj, error) {
	header, message, err := splitHeaderBody(data, "tag")
	if err != nil {
		return nil, err
	}

	t := &TagObj{Message: message}
	seenObject := false
	seenType := false
	for _, line := range strings.Split(header, "\n") {
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("unmarshal tag: malformed header line %q: %w", line, ErrMalformedObject)
		}
		switch key {
		case "object":
			t.TargetHash = Hash(val)
			seenObject = true
		case "type":
			t.TargetType = ObjectType(val)
			seenType = true
		case "tag":
			t.Name = val
		case "tagger":
			t.Tagger, t.Timestamp, err = parsePersonStamp(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal tag: tagger: %v: %w", err, ErrMalformedObject)
			}
		default:
			return nil, fmt.Errorf("unmarshal tag: unknown header key %q: %w", key, ErrMalformedObject)
		}
	}
	if !seenObject || !seenType {
		return nil, fmt.Errorf("unmarshal tag: missing required header field: %w", ErrMalformedObject)
	}
	return t, nil
}

// splitHeaderBody splits a text object at the first blank line.
func splitHeaderBody(data []byte, what string) (string, string, error) {
	idx := bytes.Index(data, []byte("\n\n"))
	if idx < 0 {
		return "", "", fmt.Errorf("unmarshal %s: missing header/message separator: %w", what, ErrMalformedObject)
	}
	return string(data[:idx]), string(data[idx+2:]), nil
}
