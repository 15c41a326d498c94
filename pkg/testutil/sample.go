package testutil

import (
	"context"
	"reflect"

	"github.com/google/uuid"
	"github.com/socialgraph-lab/backend/internal/entity"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
)

// SampleUser creates a new user in database with a random username and email. The sample can
// be overwritten by non-zero fields of init.
func SampleUser(ctx context.Context, init *entity.User) *entity.User {
	id := uuid.NewString()
	sample := &entity.User{
		Base:     entity.Base{ID: id},
		Username: "u_" + id[:8],
		Email:    id[:8] + "@example.com",
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := xcontext.DB(ctx).Create(sample).Error; err != nil {
		panic(err)
	}

	return sample
}

// SamplePost creates a new public post in database. The sample can be overwritten by non-zero
// fields of init.
func SamplePost(ctx context.Context, init *entity.Post) *entity.Post {
	sample := &entity.Post{
		Base:     entity.Base{ID: uuid.NewString()},
		Text:     "sample post " + uuid.NewString(),
		OwnerID:  User1.ID,
		IsPublic: true,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := xcontext.DB(ctx).Create(sample).Error; err != nil {
		panic(err)
	}

	return sample
}

func overwriteFields[T any](origin *T, overwrite T) {
	originValue := reflect.ValueOf(origin).Elem()
	overwriteValue := reflect.ValueOf(overwrite)

	for i := 0; i < overwriteValue.NumField(); i++ {
		overwriteField := overwriteValue.Field(i)
		if !overwriteField.IsZero() {
			originValue.Field(i).Set(overwriteField)
		}
	}
}
