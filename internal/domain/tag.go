package domain

// ObjectType names a taggable/votable entity.
type ObjectType string

const (
	ObjectTypeTribe   ObjectType = "tribe"
	ObjectTypeProject ObjectType = "project"
	ObjectTypeTask    ObjectType = "task"
	ObjectTypeTopic   ObjectType = "topic"
	ObjectTypePhoto   ObjectType = "photo"
	ObjectTypeTweet   ObjectType = "tweet"
)

var knownObjectTypes = map[ObjectType]bool{
	ObjectTypeTribe:   true,
	ObjectTypeProject: true,
	ObjectTypeTask:    true,
	ObjectTypeTopic:   true,
	ObjectTypePhoto:   true,
	ObjectTypeTweet:   true,
}

func (o ObjectType) Valid() bool { return knownObjectTypes[o] }

type ObjectRef struct {
	Type ObjectType `json:"type"`
	ID   int32      `json:"id"`
}

type Tag struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}

// TagCount is a tag with its usage count and, in clouds, its font size bucket.
type TagCount struct {
	Name     string `json:"name"`
	Count    int32  `json:"count"`
	FontSize int    `json:"font_size,omitempty"`
}
