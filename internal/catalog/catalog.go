// Package catalog holds the static reference data (users and the drink
// menu) that orders are validated and rendered against. The catalog is
// built once at startup and never mutated afterwards.
package catalog

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"fsanano/order-tracker/internal/model"
)

type Catalog struct {
	users   []model.User
	items   []model.Item
	userIDs map[int]struct{}
}

type seedFile struct {
	Users []model.User `toml:"users"`
	Items []model.Item `toml:"items"`
}

// Default returns the built-in seed: the coffee menu and a small crew of
// regulars.
func Default() *Catalog {
	return build(
		[]model.User{
			{ID: 1, Name: "Mohammad"},
			{ID: 2, Name: "Raja"},
			{ID: 3, Name: "Ahmad"},
			{ID: 4, Name: "Omar"},
			{ID: 5, Name: "Tawfiq"},
			{ID: 6, Name: "Hadeel"},
			{ID: 7, Name: "Israa"},
			{ID: 8, Name: "Shahd"},
			{ID: 9, Name: "Linda"},
			{ID: 10, Name: "Anas"},
		},
		[]model.Item{
			{ID: 1, Name: "Nescafe"},
			{ID: 2, Name: "Tea"},
			{ID: 3, Name: "Arabic Coffee"},
			{ID: 4, Name: "Turkish Coffee"},
			{ID: 5, Name: "Espresso"},
			{ID: 6, Name: "Latte"},
			{ID: 7, Name: "Mocha"},
			{ID: 8, Name: "Cappuccino"},
			{ID: 9, Name: "Frappuccino"},
		},
	)
}

// Load reads a TOML seed file and builds a catalog from it. The file
// must define at least one user and one item.
func Load(path string) (*Catalog, error) {
	var seed seedFile
	if _, err := toml.DecodeFile(path, &seed); err != nil {
		return nil, fmt.Errorf("failed to read catalog seed: %w", err)
	}
	if len(seed.Users) == 0 {
		return nil, fmt.Errorf("catalog seed %s defines no users", path)
	}
	if len(seed.Items) == 0 {
		return nil, fmt.Errorf("catalog seed %s defines no items", path)
	}
	return build(seed.Users, seed.Items), nil
}

func build(users []model.User, items []model.Item) *Catalog {
	ids := make(map[int]struct{}, len(users))
	for _, u := range users {
		ids[u.ID] = struct{}{}
	}
	return &Catalog{users: users, items: items, userIDs: ids}
}

func (c *Catalog) Users() []model.User {
	out := make([]model.User, len(c.users))
	copy(out, c.users)
	return out
}

func (c *Catalog) Items() []model.Item {
	out := make([]model.Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) HasUser(id int) bool {
	_, ok := c.userIDs[id]
	return ok
}
