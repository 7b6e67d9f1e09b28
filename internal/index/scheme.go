package index

var (
	bMeta   = []byte("meta")    // slug -> metaBytes
	bSaveAs = []byte("save_as") // custom output path -> slug

	bIdxTag    = []byte("idx_tag")    // tag -> sub-bucket
	bIdxCat    = []byte("idx_cat")    // category -> sub-bucket
	bIdxAuthor = []byte("idx_author") // author slug -> sub-bucket

	bIdxCreated  = []byte("idx_created")
	bIdxModified = []byte("idx_modified")
)
