package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Toy represents a toy listed in the catalogue
type Toy struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Category    string             `json:"category" bson:"category"`
	Image       string             `json:"image" bson:"image"`
	Price       float64            `json:"price" bson:"price"`
	Rating      float64            `json:"rating" bson:"rating"`
	Quantity    int                `json:"quantity" bson:"quantity"`
	Description string             `json:"description" bson:"description"`
	SellerEmail string             `json:"sellerEmail" bson:"sellerEmail"`
}

// ToyUpdate holds the fields a replace-by-id may change. The seller is
// deliberately absent so ownership survives an update.
type ToyUpdate struct {
	Title       string  `json:"title" bson:"title"`
	Category    string  `json:"category" bson:"category"`
	Image       string  `json:"image" bson:"image"`
	Price       float64 `json:"price" bson:"price"`
	Rating      float64 `json:"rating" bson:"rating"`
	Quantity    int     `json:"quantity" bson:"quantity"`
	Description string  `json:"description" bson:"description"`
}

// Apply copies the mutable fields onto t.
func (u ToyUpdate) Apply(t *Toy) {
	t.Title = u.Title
	t.Category = u.Category
	t.Image = u.Image
	t.Price = u.Price
	t.Rating = u.Rating
	t.Quantity = u.Quantity
	t.Description = u.Description
}

// NewToy is the body of a create request. It carries no identifier, so a
// client-sent _id of any shape is dropped while decoding.
type NewToy struct {
	ToyUpdate
	SellerEmail string `json:"sellerEmail"`
}

// Toy builds the document to insert
func (n NewToy) Toy() *Toy {
	toy := &Toy{SellerEmail: n.SellerEmail}
	n.ToyUpdate.Apply(toy)
	return toy
}

// InsertResult acknowledges a created toy
type InsertResult struct {
	Acknowledged bool               `json:"acknowledged"`
	InsertedID   primitive.ObjectID `json:"insertedId"`
}

// DeleteResult acknowledges a delete by id
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// UpdateResult acknowledges a replace-or-insert by id
type UpdateResult struct {
	Acknowledged  bool                `json:"acknowledged"`
	MatchedCount  int64               `json:"matchedCount"`
	ModifiedCount int64               `json:"modifiedCount"`
	UpsertedCount int64               `json:"upsertedCount"`
	UpsertedID    *primitive.ObjectID `json:"upsertedId"`
}
