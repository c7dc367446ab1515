package seeds

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	vo "github.com/servis-automat/servis/internal/domain/user/valueobjects"
	"github.com/servis-automat/servis/internal/infrastructure/persistence/models"
	"github.com/servis-automat/servis/internal/shared/authorization"
)

// Fixtures is the YAML document accepted by the seed command. Machines and
// club users reference their club by name.
type Fixtures struct {
	Clubs []ClubFixture `yaml:"clubs"`
	Users []UserFixture `yaml:"users"`
}

type ClubFixture struct {
	Name     string           `yaml:"name"`
	City     string           `yaml:"city"`
	Address  string           `yaml:"address"`
	Machines []MachineFixture `yaml:"machines"`
}

type MachineFixture struct {
	Number string `yaml:"number"`
	Model  string `yaml:"model"`
}

type UserFixture struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
	Club     string `yaml:"club"`
}

// Result counts the rows inserted by Apply. Existing rows are left untouched.
type Result struct {
	Clubs    int
	Machines int
	Users    int
}

type passwordHasher interface {
	Hash(password string) (string, error)
}

// LoadFile parses a fixtures document from disk.
func LoadFile(path string) (*Fixtures, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var f Fixtures
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &f, nil
}

// Apply inserts the fixtures in one transaction. Clubs are matched by name,
// machines by club and number, users by email, so running it twice is a no-op.
func Apply(db *gorm.DB, f *Fixtures, hasher passwordHasher) (*Result, error) {
	res := &Result{}
	err := db.Transaction(func(tx *gorm.DB) error {
		clubIDs := make(map[string]uint, len(f.Clubs))

		for _, c := range f.Clubs {
			if c.Name == "" {
				return fmt.Errorf("club without a name")
			}
			club := models.ClubModel{Name: c.Name, City: c.City, Address: c.Address}
			created, err := firstOrCreate(tx, &club, models.ClubModel{Name: c.Name})
			if err != nil {
				return fmt.Errorf("club %q: %w", c.Name, err)
			}
			if created {
				res.Clubs++
			}
			clubIDs[c.Name] = club.ID

			for _, m := range c.Machines {
				machine := models.MachineModel{ClubID: club.ID, Number: m.Number, Model: m.Model}
				created, err := firstOrCreate(tx, &machine, models.MachineModel{ClubID: club.ID, Number: m.Number})
				if err != nil {
					return fmt.Errorf("machine %s/%s: %w", c.Name, m.Number, err)
				}
				if created {
					res.Machines++
				}
			}
		}

		for _, u := range f.Users {
			model, err := userModel(tx, u, clubIDs, hasher)
			if err != nil {
				return fmt.Errorf("user %q: %w", u.Email, err)
			}
			created, err := firstOrCreate(tx, model, models.UserModel{Email: model.Email})
			if err != nil {
				return fmt.Errorf("user %q: %w", u.Email, err)
			}
			if created {
				res.Users++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func userModel(tx *gorm.DB, u UserFixture, clubIDs map[string]uint, hasher passwordHasher) (*models.UserModel, error) {
	email, err := vo.NewEmail(u.Email)
	if err != nil {
		return nil, err
	}
	role, ok := authorization.ParseUserRole(u.Role)
	if !ok {
		return nil, fmt.Errorf("unknown role %q", u.Role)
	}
	password, err := vo.NewPassword(u.Password)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", email, err)
	}

	var clubID *uint
	if role == authorization.RoleClub {
		id, err := resolveClub(tx, u.Club, clubIDs)
		if err != nil {
			return nil, err
		}
		clubID = &id
	}

	hash, err := hasher.Hash(password.String())
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return &models.UserModel{
		Name:         u.Name,
		Email:        email.String(),
		PasswordHash: hash,
		Role:         role.String(),
		ClubID:       clubID,
	}, nil
}

// resolveClub finds a club declared in the same file or already stored.
func resolveClub(tx *gorm.DB, name string, clubIDs map[string]uint) (uint, error) {
	if name == "" {
		return 0, fmt.Errorf("club users need a club")
	}
	if id, ok := clubIDs[name]; ok {
		return id, nil
	}
	var club models.ClubModel
	if err := tx.Where("name = ?", name).First(&club).Error; err != nil {
		return 0, fmt.Errorf("club %q not found: %w", name, err)
	}
	clubIDs[name] = club.ID
	return club.ID, nil
}

// firstOrCreate loads the row matching where into dest, or inserts dest
// when there is none.
func firstOrCreate(tx *gorm.DB, dest interface{}, where interface{}) (bool, error) {
	var n int64
	if err := tx.Model(dest).Where(where).Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return false, tx.Where(where).First(dest).Error
	}
	return true, tx.Create(dest).Error
}
