package object

// Hash is a 64-character hex-encoded SHA-256 digest.
type Hash string

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
	TypeTag    ObjectType = "tag"
)

const (
	// Tree mode constants using Git's canonical octal mode strings.
	TreeModeDir        = "40000"
	TreeModeFile       = "100644"
	TreeModeExecutable = "100755"
)

// RawHashLen is the length of a Hash decoded back to raw bytes.
const RawHashLen = 32

// Blob holds raw file data.
type Blob struct {
	Data []byte
}

// TreeEntry is one entry in a tree object: a named, mode-tagged pointer to
// either a blob or a subtree.
type TreeEntry struct {
	Mode string // octal mode string: TreeModeDir, TreeModeFile, TreeModeExecutable
	Name string
	ID   Hash
}

// IsDir reports whether the entry points at a subtree.
func (e TreeEntry) IsDir() bool {
	return e.Mode == TreeModeDir
}

// TreeObj holds a list of tree entries. MarshalTree sorts them by Name, so
// two trees with the same entry set always serialize identically.
type TreeObj struct {
	Entries []TreeEntry
}

// CommitObj represents a commit pointing to a tree with metadata. Parents is
// empty for a root commit; merge commits (two or more parents) are
// representable but never produced here.
type CommitObj struct {
	TreeHash           Hash
	Parents            []Hash
	Author             string
	Timestamp          int64
	Committer          string
	CommitterTimestamp int64
	Signature          string // optional, set by a CommitSigner
	Message            string
}

// TagObj is an annotated tag: a stored object pointing at a target object,
// with its own name, tagger, and message. Lightweight tags are plain refs
// and never produce a TagObj.
type TagObj struct {
	TargetHash Hash
	TargetType ObjectType
	Name       string
	Tagger     string
	Timestamp  int64
	Message    string
}
