package models

// Group is a document in the group collection. The document store's own _id is not exposed;
// id is assigned by the application.
type Group struct {
	ID   int64  `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}
