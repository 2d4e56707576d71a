package mongo

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/followup/internal/followup/entity"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// userDoc keeps loosely typed fields raw so one odd document cannot abort a
// scan: a non-string email reads as absent, a non-string name or address as
// empty and a non-string due date as malformed.
type userDoc struct {
	ID        bson.RawValue `bson:"_id"`
	Email     bson.RawValue `bson:"email"`
	Customers bson.RawValue `bson:"customers"`
}

// record converts the document. ok is false when customers is present but
// not an array; such a user keeps no customers.
func (d userDoc) record() (_ entity.UserRecord, ok bool) {
	u := entity.UserRecord{
		ID:        rawID(d.ID),
		Customers: []entity.CustomerRecord{},
	}
	u.Email, _ = d.Email.StringValueOK()

	if d.Customers.Type == 0 || d.Customers.Type == bson.TypeNull {
		return u, true
	}
	arr, ok := d.Customers.ArrayOK()
	if !ok {
		return u, false
	}
	values, err := arr.Values()
	if err != nil {
		return u, false
	}

	for _, v := range values {
		c, isDoc := v.DocumentOK()
		if !isDoc {
			continue
		}
		u.Customers = append(u.Customers, entity.CustomerRecord{
			Name:    lookupString(c, "name"),
			Address: lookupString(c, "address"),
			DueDate: lookupString(c, "dueDate"),
		})
	}

	return u, true
}

func lookupString(doc bson.Raw, key string) string {
	s, _ := doc.Lookup(key).StringValueOK()
	return s
}

func rawID(v bson.RawValue) string {
	if oid, ok := v.ObjectIDOK(); ok {
		return oid.Hex()
	}
	if s, ok := v.StringValueOK(); ok {
		return s
	}
	return v.String()
}

// ScanUsers iterates the users collection in _id order.
func (m *Mongo) ScanUsers(ctx context.Context, fn func(entity.UserRecord) error) (err error) {
	ctx, span := m.startSpan(ctx, "ScanUsers")
	defer func() { m.endSpan(span, err) }()

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetBatchSize(m.batchSize).
		SetProjection(bson.D{{Key: "email", Value: 1}, {Key: "customers", Value: 1}})

	cur, err := m.users.Find(ctx, bson.D{}, opts)
	if err != nil {
		return m.mapError(err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc userDoc
		if err := cur.Decode(&doc); err != nil {
			slog.WarnContext(ctx, "skipping undecodable user", "user_id", rawID(cur.Current.Lookup("_id")), "error", err)
			continue
		}

		user, ok := doc.record()
		if !ok {
			slog.WarnContext(ctx, "ignoring malformed customers", "user_id", user.ID)
		}
		if err := fn(user); err != nil {
			return err
		}
	}

	return m.mapError(cur.Err())
}
