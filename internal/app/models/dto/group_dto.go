package dto

// GroupRequest is the JSON body for creating or renaming a group
type GroupRequest struct {
	Name string `json:"name" binding:"required,notblank,max=255" example:"IP-11"`
}
