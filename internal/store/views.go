package store

import (
	"fmt"

	"github.com/tomhoover/paperless-ngx/internal/apperr"
	"github.com/tomhoover/paperless-ngx/internal/models"
)

// CreateSavedView inserts a saved view and its filter rules within a
// transaction. Generated IDs are written back.
func (db *DB) CreateSavedView(v *models.SavedView) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.Exec(`
		INSERT INTO saved_views (name, show_on_dashboard, show_in_sidebar, sort_field, sort_reverse)
		VALUES (?, ?, ?, ?, ?)
	`, v.Name, v.ShowOnDashboard, v.ShowInSidebar, v.SortField, v.SortReverse)
	if err != nil {
		return fmt.Errorf("store: insert saved view: %w", err)
	}
	if v.ID, err = res.LastInsertId(); err != nil {
		return err
	}

	for i := range v.FilterRules {
		r := &v.FilterRules[i]
		res, err := tx.Exec(`
			INSERT INTO saved_view_filter_rules (saved_view_id, rule_type, value)
			VALUES (?, ?, ?)
		`, v.ID, r.RuleType, r.Value)
		if err != nil {
			return fmt.Errorf("store: insert filter rule: %w", err)
		}
		if r.ID, err = res.LastInsertId(); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListSavedViews returns all saved views with their filter rules.
func (db *DB) ListSavedViews() ([]models.SavedView, error) {
	rows, err := db.conn.Query(`
		SELECT id, name, show_on_dashboard, show_in_sidebar, sort_field, sort_reverse
		FROM saved_views ORDER BY name COLLATE NOCASE
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list saved views: %w", err)
	}
	defer rows.Close()

	var out []models.SavedView
	for rows.Next() {
		var v models.SavedView
		if err := rows.Scan(&v.ID, &v.Name, &v.ShowOnDashboard, &v.ShowInSidebar,
			&v.SortField, &v.SortReverse); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		rules, err := db.filterRules(out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].FilterRules = rules
	}
	return out, nil
}

// DeleteSavedView removes a saved view; its filter rules cascade.
func (db *DB) DeleteSavedView(id int64) error {
	res, err := db.conn.Exec(`DELETE FROM saved_views WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete saved view: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (db *DB) filterRules(viewID int64) ([]models.SavedViewRule, error) {
	rows, err := db.conn.Query(`
		SELECT id, rule_type, value FROM saved_view_filter_rules
		WHERE saved_view_id = ? ORDER BY id
	`, viewID)
	if err != nil {
		return nil, fmt.Errorf("store: filter rules: %w", err)
	}
	defer rows.Close()

	out := []models.SavedViewRule{}
	for rows.Next() {
		var r models.SavedViewRule
		if err := rows.Scan(&r.ID, &r.RuleType, &r.Value); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
