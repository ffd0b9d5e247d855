package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("users").Indexes()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	log.Println("EnsureUserIndexes: creating email_unique index")
	_, err := indexes.CreateOne(ctx, emailIndex)
	if err != nil {
		log.Println("EnsureUserIndexes: email index error:", err)
		return err
	}
	log.Println("EnsureUserIndexes: email_unique index created")
	return nil
}

func EnsureSparePartIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("spareparts").Indexes()

	addedByIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "addedBy", Value: 1}},
		Options: options.Index().SetName("addedBy_index"),
	}

	log.Println("EnsureSparePartIndexes: creating addedBy_index index")
	_, err := indexes.CreateOne(ctx, addedByIndex)
	if err != nil {
		log.Println("EnsureSparePartIndexes: addedBy index error:", err)
		return err
	}
	log.Println("EnsureSparePartIndexes: addedBy_index index created")
	return nil
}
