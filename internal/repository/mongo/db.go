package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/medhub/ambulatorio-api/internal/config"
)

// Collection names, one document collection per entity type.
const (
	collPatients       = "patients"
	collAppointments   = "appointments"
	collSchedeImpianto = "schede_impianto_picc"
	collSchedeGestione = "schede_gestione_picc"
	collSchedeMed      = "schede_medicazione_med"
	collPrescrizioni   = "prescrizioni"
	collPhotos         = "photos"
	collClosedSlots    = "closed_slots"
	collUndoHistory    = "ai_undo_history"
	collChatHistory    = "ai_chat_history"
	collOutbox         = "outbox_events"
)

// NewDB connects to MongoDB and verifies the connection before returning the
// database handle.
func NewDB(cfg config.MongoConfig) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return client.Database(cfg.Database), nil
}
