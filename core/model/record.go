package model

// TargetOnlyDescription is the description given to ghost records synthesized
// for ids present in the target but absent from the desired set.
const TargetOnlyDescription = "(present in target only)"

// Device is the capability set shared by every category-specific record shape.
type Device interface {
	ID() int
	DesiredTag() string
	Description() string
	TargetTag() string
	TargetComment() string
	Status() Status
	SetStatus(Status)
	// SetTarget records the tag and comment written to the target.
	SetTarget(tag, comment string)
}

// Record is the base Device implementation embedded by category shapes.
type Record struct {
	RecordID      int    `json:"id"`
	Tag           string `json:"tag"`
	Desc          string `json:"description"`
	LastTag       string `json:"target_tag,omitempty"`
	LastComment   string `json:"target_comment,omitempty"`
	CurrentStatus Status `json:"status"`
}

// NewRecord creates a pending record.
func NewRecord(id int, tag, description string) *Record {
	return &Record{RecordID: id, Tag: tag, Desc: description, CurrentStatus: Pending()}
}

// NewGhost creates a ToDelete record for an id observed only in the target.
func NewGhost(id int, observedTag string) *Record {
	return &Record{
		RecordID:      id,
		Tag:           observedTag,
		Desc:          TargetOnlyDescription,
		LastTag:       observedTag,
		CurrentStatus: ToDelete(),
	}
}

func (r *Record) ID() int               { return r.RecordID }
func (r *Record) DesiredTag() string    { return r.Tag }
func (r *Record) Description() string   { return r.Desc }
func (r *Record) TargetTag() string     { return r.LastTag }
func (r *Record) TargetComment() string { return r.LastComment }
func (r *Record) Status() Status        { return r.CurrentStatus }
func (r *Record) SetStatus(s Status)    { r.CurrentStatus = s }

func (r *Record) SetTarget(tag, comment string) {
	r.LastTag = tag
	r.LastComment = comment
}

// IsGhost reports whether d was synthesized for a target-only id.
func IsGhost(d Device) bool {
	return d.Status().Kind == StatusToDelete && d.Description() == TargetOnlyDescription
}

// SizingLimit is a named integer constant bounding a category's element count.
type SizingLimit struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}
