package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/text/unicode/norm"
)

// CharacterRow is the persisted shape of one character.
type CharacterRow struct {
	ContentID        uint64
	ActorID          uint32
	ServiceAccountID uint32
	Name             string
	CharaMake        string
	ZoneID           uint16
	PosX             float32
	PosY             float32
	PosZ             float32
	Rotation         float32
	ClassJob         uint8
	Levels           map[uint8]uint16
	Exp              map[uint8]uint32
	HP               uint32
	MP               uint32
	Gil              uint32
	InventoryJSON    []byte
	Unlocks          []byte
	QuestsJSON       []byte
}

// ErrCharacterNotFound is returned when no live character matches.
var ErrCharacterNotFound = errors.New("character not found")

type CharacterRepo struct {
	db *DB
}

func NewCharacterRepo(db *DB) *CharacterRepo {
	return &CharacterRepo{db: db}
}

const characterColumns = `content_id, actor_id, service_account_id, name, chara_make,
        zone_id, pos_x, pos_y, pos_z, rotation,
        class_job, levels, exp, hp, mp, gil, inventory, unlocks, quests`

func scanCharacter(row pgx.Row) (CharacterRow, error) {
	var c CharacterRow
	var levels, exp []byte
	err := row.Scan(
		&c.ContentID, &c.ActorID, &c.ServiceAccountID, &c.Name, &c.CharaMake,
		&c.ZoneID, &c.PosX, &c.PosY, &c.PosZ, &c.Rotation,
		&c.ClassJob, &levels, &exp, &c.HP, &c.MP, &c.Gil,
		&c.InventoryJSON, &c.Unlocks, &c.QuestsJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c, ErrCharacterNotFound
		}
		return c, err
	}
	if err := json.Unmarshal(levels, &c.Levels); err != nil {
		c.Levels = map[uint8]uint16{}
	}
	if err := json.Unmarshal(exp, &c.Exp); err != nil {
		c.Exp = map[uint8]uint32{}
	}
	return c, nil
}

// GetByContentID loads one live character.
func (r *CharacterRepo) GetByContentID(ctx context.Context, contentID uint64) (CharacterRow, error) {
	row := r.db.Pool.QueryRow(ctx,
		`SELECT `+characterColumns+` FROM characters
		 WHERE content_id = $1 AND deleted_at IS NULL`, contentID)
	return scanCharacter(row)
}

// ListByServiceAccount returns the account's roster in creation order.
func (r *CharacterRepo) ListByServiceAccount(ctx context.Context, accountID uint32) ([]CharacterRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+characterColumns+` FROM characters
		 WHERE service_account_id = $1 AND deleted_at IS NULL
		 ORDER BY content_id`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CharacterRow
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// NameTaken reports whether a live character already uses the name.
func (r *CharacterRepo) NameTaken(ctx context.Context, name string) (bool, error) {
	var taken bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM characters
		  WHERE lower(name) = lower($1) AND deleted_at IS NULL)`,
		norm.NFC.String(name),
	).Scan(&taken)
	return taken, err
}

// Create inserts a new character and returns its content id.
func (r *CharacterRepo) Create(ctx context.Context, c *CharacterRow) (uint64, error) {
	levels, _ := json.Marshal(c.Levels)
	exp, _ := json.Marshal(c.Exp)
	inv := c.InventoryJSON
	if len(inv) == 0 {
		inv = []byte("[]")
	}
	quests := c.QuestsJSON
	if len(quests) == 0 {
		quests = []byte("[]")
	}

	var contentID uint64
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO characters
		  (actor_id, service_account_id, name, chara_make, zone_id,
		   pos_x, pos_y, pos_z, rotation, class_job, levels, exp, hp, mp, gil,
		   inventory, unlocks, quests)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		 RETURNING content_id`,
		c.ActorID, c.ServiceAccountID, norm.NFC.String(c.Name), c.CharaMake, c.ZoneID,
		c.PosX, c.PosY, c.PosZ, c.Rotation, c.ClassJob, levels, exp, c.HP, c.MP, c.Gil,
		inv, c.Unlocks, quests,
	).Scan(&contentID)
	if err != nil {
		return 0, fmt.Errorf("insert character: %w", err)
	}
	return contentID, nil
}

// Save flushes the mutable state of a character.
func (r *CharacterRepo) Save(ctx context.Context, c *CharacterRow) error {
	levels, _ := json.Marshal(c.Levels)
	exp, _ := json.Marshal(c.Exp)
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE characters SET
		   zone_id=$2, pos_x=$3, pos_y=$4, pos_z=$5, rotation=$6,
		   class_job=$7, levels=$8, exp=$9, hp=$10, mp=$11, gil=$12,
		   inventory=$13, unlocks=$14, quests=$15, updated_at=now()
		 WHERE content_id=$1 AND deleted_at IS NULL`,
		c.ContentID, c.ZoneID, c.PosX, c.PosY, c.PosZ, c.Rotation,
		c.ClassJob, levels, exp, c.HP, c.MP, c.Gil,
		c.InventoryJSON, c.Unlocks, c.QuestsJSON,
	)
	if err != nil {
		return fmt.Errorf("save character %d: %w", c.ContentID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

// Delete soft-deletes the character, freeing its name.
func (r *CharacterRepo) Delete(ctx context.Context, contentID uint64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE characters SET deleted_at=now()
		 WHERE content_id=$1 AND deleted_at IS NULL`, contentID)
	if err != nil {
		return fmt.Errorf("delete character %d: %w", contentID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

// NextActorID allocates a process-unique actor id seeded from the table.
func (r *CharacterRepo) NextActorID(ctx context.Context) (uint32, error) {
	var maxID uint32
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(actor_id), 0x10000000) FROM characters`).Scan(&maxID)
	if err != nil {
		return 0, err
	}
	return maxID + 1, nil
}
