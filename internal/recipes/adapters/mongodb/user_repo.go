package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"recetario/internal/recipes/domain/entities"
	"recetario/internal/recipes/ports/repositories"
	"recetario/pkg/logger"
)

// UserRepository реализует интерфейс repositories.UserRepository для работы с MongoDB.
type UserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository создает новый экземпляр репозитория пользователей.
func NewUserRepository(db *mongo.Database) repositories.UserRepository {
	return &UserRepository{coll: db.Collection(UsersCollection)}
}

func (r *UserRepository) log(ctx context.Context, method string) *logger.Logger {
	return logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", method))
}

// Create сохраняет нового пользователя.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	log := r.log(ctx, "Create")

	if user.ID == "" {
		user.ID = entities.NewID()
	}
	doc, err := toUserDocument(user)
	if err != nil {
		return nil, err
	}
	doc.CreatedAt = now()
	doc.UpdatedAt = doc.CreatedAt

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			log.Debug(ctx, "email already exists", zap.String("email", user.Email))
			return nil, entities.ErrEmailTaken
		}
		log.Error(ctx, "error creating user", zap.Error(err))
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return doc.toEntity(), nil
}

func (r *UserRepository) findOne(ctx context.Context, method string, filter bson.D) (*entities.User, error) {
	log := r.log(ctx, method)

	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			log.Debug(ctx, "user not found")
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, "error finding user", zap.Error(err))
		return nil, fmt.Errorf("error finding user: %w", err)
	}
	return doc.toEntity(), nil
}

// FindByID находит пользователя по ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, entities.ErrUserNotFound
	}
	return r.findOne(ctx, "FindByID", bson.D{{Key: "_id", Value: oid}})
}

// FindByEmail находит пользователя по email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, "FindByEmail", bson.D{{Key: "email", Value: email}})
}

// List возвращает пользователей в порядке создания.
func (r *UserRepository) List(ctx context.Context) ([]*entities.User, error) {
	log := r.log(ctx, "List")

	opts := options.Find().SetSort(creationOrder)
	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		log.Error(ctx, "error listing users", zap.Error(err))
		return nil, fmt.Errorf("error listing users: %w", err)
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("error decoding users: %w", err)
	}

	users := make([]*entities.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toEntity())
	}
	return users, nil
}

// Update перезаписывает изменяемые поля пользователя.
func (r *UserRepository) Update(ctx context.Context, user *entities.User) (*entities.User, error) {
	log := r.log(ctx, "Update")

	oid, err := objectID(user.ID)
	if err != nil {
		return nil, entities.ErrUserNotFound
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "nombre", Value: user.Nombre},
		{Key: "email", Value: user.Email},
		{Key: "password", Value: user.PasswordHash},
		{Key: "updatedAt", Value: now()},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&doc)
	switch {
	case err == nil:
		return doc.toEntity(), nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, entities.ErrUserNotFound
	case mongo.IsDuplicateKeyError(err):
		return nil, entities.ErrEmailTaken
	default:
		log.Error(ctx, "error updating user", zap.Error(err))
		return nil, fmt.Errorf("error updating user: %w", err)
	}
}

// Delete удаляет пользователя.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	log := r.log(ctx, "Delete")

	oid, err := objectID(id)
	if err != nil {
		return entities.ErrUserNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		log.Error(ctx, "error deleting user", zap.Error(err))
		return fmt.Errorf("error deleting user: %w", err)
	}
	if res.DeletedCount == 0 {
		return entities.ErrUserNotFound
	}
	return nil
}

// Count возвращает количество пользователей.
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("error counting users: %w", err)
	}
	return n, nil
}

// DeleteAll удаляет всех пользователей.
func (r *UserRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("error deleting users: %w", err)
	}
	return nil
}
