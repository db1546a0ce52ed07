package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attachment is the metadata record for a file stored in GridFS.
type Attachment struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Issue       *primitive.ObjectID `bson:"issue,omitempty" json:"issue,omitempty"`
	FileID      primitive.ObjectID  `bson:"fileId" json:"fileId"`
	FileName    string              `bson:"fileName" json:"fileName"`
	ContentType string              `bson:"contentType" json:"contentType"`
	Size        int64               `bson:"size" json:"size"`
	UploadedBy  primitive.ObjectID  `bson:"uploadedBy" json:"uploadedBy"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
}
