package testutil

import (
	"context"
	"database/sql"
	"time"

	"github.com/socialgraph-lab/backend/internal/entity"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
)

var fixtureTime = time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)

var (
	User1 = &entity.User{
		Base:     entity.Base{ID: "user1", CreatedAt: fixtureTime},
		Username: "alice",
		Email:    "alice@example.com",
		FullName: "Alice",
	}

	User2 = &entity.User{
		Base:     entity.Base{ID: "user2", CreatedAt: fixtureTime},
		Username: "bobby",
		Email:    "bob@example.com",
		FullName: "Bob",
	}

	User3 = &entity.User{
		Base:     entity.Base{ID: "user3", CreatedAt: fixtureTime},
		Username: "carol",
		Email:    "carol@example.com",
		FullName: "Carol",
	}

	Users = []*entity.User{User1, User2, User3}
)

var (
	// Community1 is owned by User1 and has User2 as member.
	Community1 = &entity.Community{
		Base:         entity.Base{ID: "community1", CreatedAt: fixtureTime},
		Name:         "Gophers",
		OwnerID:      User1.ID,
		MembersCount: 2,
	}

	Communities = []*entity.Community{Community1}

	CommunityMembers = []*entity.CommunityMember{
		{CommunityID: Community1.ID, UserID: User1.ID, CreatedAt: fixtureTime},
		{CommunityID: Community1.ID, UserID: User2.ID, CreatedAt: fixtureTime.Add(time.Minute)},
	}
)

var (
	// Post1 is a public post of User1.
	Post1 = &entity.Post{
		Base:     entity.Base{ID: "post1", CreatedAt: fixtureTime.Add(time.Hour)},
		Text:     "Hello from Alice",
		OwnerID:  User1.ID,
		IsPublic: true,
	}

	// Post2 belongs to Community1, only members of Community1 can see it.
	Post2 = &entity.Post{
		Base:        entity.Base{ID: "post2", CreatedAt: fixtureTime.Add(2 * time.Hour)},
		Text:        "Gophers only",
		OwnerID:     User1.ID,
		IsPublic:    false,
		CommunityID: sql.NullString{String: Community1.ID, Valid: true},
	}

	// Post3 is a public post of User2.
	Post3 = &entity.Post{
		Base:     entity.Base{ID: "post3", CreatedAt: fixtureTime.Add(3 * time.Hour)},
		Text:     "Hello from Bob",
		OwnerID:  User2.ID,
		IsPublic: true,
	}

	Posts = []*entity.Post{Post1, Post2, Post3}
)

// CreateFixtureDb inserts the fixture records into the database of ctx.
func CreateFixtureDb(ctx context.Context) {
	db := xcontext.DB(ctx)

	for _, u := range Users {
		user := *u
		if err := db.Create(&user).Error; err != nil {
			panic(err)
		}
	}

	for _, c := range Communities {
		community := *c
		if err := db.Create(&community).Error; err != nil {
			panic(err)
		}
	}

	for _, m := range CommunityMembers {
		member := *m
		if err := db.Create(&member).Error; err != nil {
			panic(err)
		}
	}

	for _, p := range Posts {
		post := *p
		if err := db.Create(&post).Error; err != nil {
			panic(err)
		}
	}
}
