package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/oudercomite/ledenportaal/internal/model"
	"github.com/oudercomite/ledenportaal/internal/utils"
)

// UserRepo persists portal members and their profile data.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,password_hash,role,name,avatar_url,team_id,created_at,updated_at"

// Create inserts a user with a freshly hashed password and returns its ID.
func (r *UserRepo) Create(ctx context.Context, email, password, role string, name, teamID *string, cost int) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash, role, name, team_id) VALUES (?,?,?,?,?,?)",
		id, email, hash, role, name, teamID)
	if err != nil {
		if isDuplicateKey(err) {
			return "", ErrEmailExists
		}
		return "", err
	}
	return id, nil
}

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Name, &u.AvatarURL, &u.TeamID, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// List returns all members ordered by name, with their team and werkgroepen
// joined in. This backs the member directory, so the password hash never
// leaves the repository serialized (the model hides it from JSON).
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT u.id, u.email, u.password_hash, u.role, u.name, u.avatar_url, u.team_id, u.created_at, u.updated_at,
		       t.id, t.name, t.description, t.created_at, t.updated_at
		FROM users u
		LEFT JOIN teams t ON t.id = u.team_id
		ORDER BY u.name IS NULL, u.name ASC, u.email ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	index := map[string]int{}
	for rows.Next() {
		var u model.User
		var tID, tName, tDesc sql.NullString
		var tCreated, tUpdated sql.NullTime
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Name, &u.AvatarURL, &u.TeamID, &u.CreatedAt, &u.UpdatedAt,
			&tID, &tName, &tDesc, &tCreated, &tUpdated); err != nil {
			return nil, err
		}
		if tID.Valid {
			team := model.Team{ID: tID.String, Name: tName.String, CreatedAt: tCreated.Time, UpdatedAt: tUpdated.Time}
			if tDesc.Valid {
				team.Description = &tDesc.String
			}
			u.Team = &team
		}
		index[u.ID] = len(users)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return []model.User{}, nil
	}

	// Second pass for werkgroep memberships; one query for the whole page.
	wrows, err := r.DB.QueryContext(ctx, `
		SELECT uw.user_id, w.id, w.name, w.description, w.created_at, w.updated_at
		FROM user_werkgroepen uw
		JOIN werkgroepen w ON w.id = uw.werkgroep_id
		ORDER BY w.name ASC`)
	if err != nil {
		return nil, err
	}
	defer wrows.Close()
	for wrows.Next() {
		var userID string
		var w model.Werkgroep
		if err := wrows.Scan(&userID, &w.ID, &w.Name, &w.Description, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		if i, ok := index[userID]; ok {
			users[i].Werkgroepen = append(users[i].Werkgroepen, w)
		}
	}
	return users, wrows.Err()
}

// UpdateRoleTeam changes a member's role and team assignment.
func (r *UserRepo) UpdateRoleTeam(ctx context.Context, id, role string, teamID *string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET role=?, team_id=?, updated_at=UTC_TIMESTAMP() WHERE id=?",
		role, teamID, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		// The update may be a no-op on identical values; confirm existence.
		if _, gerr := r.GetByID(ctx, id); gerr != nil {
			return gerr
		}
	}
	return err
}

// Delete removes a member. Their sign-ups and werkgroep memberships go with
// them so no orphan claims linger on future shifts.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, "DELETE FROM user_werkgroepen WHERE user_id=?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM signups WHERE user_id=?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM password_vault_users WHERE user_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
