package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/anatolia-commerce/cargo-gateway/internal/core/domain"
	"github.com/anatolia-commerce/cargo-gateway/internal/core/ports"
)

const ordersCollection = "orders"

// OrderRepository reads orders from the storefront's collection and writes
// back only the shipment subdocument. The rest of the order aggregate
// belongs to the storefront and is never touched here.
type OrderRepository struct {
	collection *mongo.Collection
}

var _ ports.OrderRepository = (*OrderRepository)(nil)

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{collection: db.Collection(ordersCollection)}
}

func (r *OrderRepository) GetByID(ctx context.Context, orderID string) (*domain.Order, error) {
	var order domain.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order %s: %w", orderID, err)
	}
	return &order, nil
}

// UpdateShipment applies a partial $set touching only the fields present in
// the update. Nil pointers leave the stored value alone; a non-nil empty
// string clears it.
func (r *OrderRepository) UpdateShipment(ctx context.Context, orderID string, upd ports.ShipmentUpdate) error {
	set := bson.M{}
	if upd.CargoKey != nil {
		set["shipment.cargo_key"] = *upd.CargoKey
	}
	if upd.TrackingNumber != nil {
		set["shipment.tracking_number"] = *upd.TrackingNumber
	}
	if upd.Status != nil {
		set["shipment.status"] = *upd.Status
	}
	if upd.LabelURL != nil {
		set["shipment.label_url"] = *upd.LabelURL
	}
	if upd.LastError != nil {
		set["shipment.last_error"] = *upd.LastError
	}
	if upd.COD != nil {
		set["shipment.cod"] = upd.COD
	}
	if upd.DebugFields != nil {
		set["shipment.debug_fields"] = upd.DebugFields
	}
	if len(set) == 0 {
		return nil
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": orderID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update shipment for order %s: %w", orderID, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}
