package user

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type User struct {
	ID     bson.ObjectID `bson:"_id,omitempty"`
	UserID int64         `bson:"user_id"`
	Name   string        `bson:"name"`
	Email  string        `bson:"email"`
	// Extra holds every stored key that is not one of the typed fields above,
	// plus known keys whose stored value has another type (a permissive update
	// can write {"name": 5}). An Extra entry wins over the typed field.
	Extra bson.M `bson:",inline"`
}

var knownKeys = []string{"_id", "user_id", "name", "email"}

// UnmarshalBSON accepts any stored document. Values that do not fit a typed field
// are kept verbatim in Extra.
func (u *User) UnmarshalBSON(data []byte) error {
	// nested documents come back as bson.M so they render as JSON objects
	dec := bson.NewDecoder(bson.NewDocumentReader(bytes.NewReader(data)))
	dec.DefaultDocumentM()

	var doc bson.M
	if err := dec.Decode(&doc); err != nil {
		return err
	}

	*u = User{}

	for k, v := range doc {
		switch k {
		case "_id":
			if id, ok := v.(bson.ObjectID); ok {
				u.ID = id
				continue
			}
		case "user_id":
			switch n := v.(type) {
			case int64:
				u.UserID = n
				continue
			case int32:
				u.UserID = int64(n)
				continue
			}
		case "name":
			if s, ok := v.(string); ok {
				u.Name = s
				continue
			}
		case "email":
			if s, ok := v.(string); ok {
				u.Email = s
				continue
			}
		}

		if u.Extra == nil {
			u.Extra = bson.M{}
		}
		u.Extra[k] = v
	}

	return nil
}

// MarshalBSON writes the typed fields unless Extra overrides them, then the
// remaining extra keys in sorted order.
func (u User) MarshalBSON() ([]byte, error) {
	doc := make(bson.D, 0, len(u.Extra)+len(knownKeys))

	for _, k := range knownKeys {
		if v, ok := u.Extra[k]; ok {
			doc = append(doc, bson.E{Key: k, Value: v})
			continue
		}

		switch k {
		case "_id":
			if !u.ID.IsZero() {
				doc = append(doc, bson.E{Key: k, Value: u.ID})
			}
		case "user_id":
			doc = append(doc, bson.E{Key: k, Value: u.UserID})
		case "name":
			doc = append(doc, bson.E{Key: k, Value: u.Name})
		case "email":
			doc = append(doc, bson.E{Key: k, Value: u.Email})
		}
	}

	for _, k := range u.extraKeys() {
		doc = append(doc, bson.E{Key: k, Value: u.Extra[k]})
	}

	return bson.Marshal(doc)
}

func (u User) extraKeys() []string {
	keys := make([]string, 0, len(u.Extra))
	for k := range u.Extra {
		switch k {
		case "_id", "user_id", "name", "email":
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalJSON flattens Extra next to the known fields and renders an ObjectID
// _id as hex.
func (u User) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Extra)+4)

	for k, v := range u.Extra {
		out[k] = v
	}

	if _, ok := out["_id"]; !ok && !u.ID.IsZero() {
		out["_id"] = u.ID.Hex()
	}
	if _, ok := out["user_id"]; !ok {
		out["user_id"] = u.UserID
	}
	if _, ok := out["name"]; !ok {
		out["name"] = u.Name
	}
	if _, ok := out["email"]; !ok {
		out["email"] = u.Email
	}

	return json.Marshal(out)
}

// CreateUserRequest only checks presence; pointers let an empty string or a zero id
// through.
type CreateUserRequest struct {
	UserID *int64  `json:"user_id" binding:"required"`
	Name   *string `json:"name" binding:"required"`
	Email  *string `json:"email" binding:"required"`
}

func (r CreateUserRequest) ToUser() User {
	return User{
		UserID: *r.UserID,
		Name:   *r.Name,
		Email:  *r.Email,
	}
}

// Update is the raw partial document a client sent to PUT /users/:id.
type Update map[string]any

var strictFields = map[string]struct{}{
	"name":  {},
	"email": {},
}

// Check enforces the update policy. Permissive lets every key through; strict only
// accepts name and email.
func (u Update) Check(strict bool) error {
	if len(u) == 0 {
		return ErrEmptyUpdate
	}

	if !strict {
		return nil
	}

	var unsupported []string
	for k := range u {
		if _, ok := strictFields[k]; !ok {
			unsupported = append(unsupported, k)
		}
	}

	if len(unsupported) > 0 {
		sort.Strings(unsupported)
		return &UnsupportedFieldsError{Fields: unsupported}
	}

	return nil
}

func (u Update) Fields() bson.M {
	out := make(bson.M, len(u))
	for k, v := range u {
		out[k] = v
	}
	return out
}

type UnsupportedFieldsError struct {
	Fields []string
}

func (e *UnsupportedFieldsError) Error() string {
	return fmt.Sprintf("Unsupported fields: %s", strings.Join(e.Fields, ", "))
}
