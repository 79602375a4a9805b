package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/plink/plink/internal/model"
)

// CreateContact adds a manually entered CRM contact.
func CreateContact(ctx context.Context, db *sql.DB, email, name, phone, company string) (*model.Contact, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO crm_contacts (email, name, phone, company) VALUES (?, ?, ?, ?)`,
		email, name, phone, company,
	)
	if err != nil {
		return nil, fmt.Errorf("creating contact: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting contact id: %w", err)
	}

	return GetContact(ctx, db, id)
}

// GetContact returns a manually added contact by ID.
func GetContact(ctx context.Context, db *sql.DB, id int64) (*model.Contact, error) {
	c := &model.Contact{Type: model.ContactTypeManual}
	var name, phone, company sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, email, name, phone, company, created_at FROM crm_contacts WHERE id = ?`, id,
	).Scan(&c.ID, &c.Email, &name, &phone, &company, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting contact: %w", err)
	}
	c.Name = name.String
	c.Phone = phone.String
	c.Company = company.String
	return c, nil
}

// ListContacts returns manually added contacts matching the search query.
func ListContacts(ctx context.Context, db *sql.DB, query string) ([]model.Contact, error) {
	like := "%" + strings.ToLower(query) + "%"
	rows, err := db.QueryContext(ctx,
		`SELECT id, email, name, phone, company, created_at FROM crm_contacts
		 WHERE LOWER(name) LIKE ? OR LOWER(email) LIKE ? ORDER BY id`,
		like, like,
	)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	defer rows.Close()

	var contacts []model.Contact
	for rows.Next() {
		var c model.Contact
		var name, phone, company sql.NullString
		if err := rows.Scan(&c.ID, &c.Email, &name, &phone, &company, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning contact: %w", err)
		}
		c.Name = name.String
		c.Phone = phone.String
		c.Company = company.String
		c.Type = model.ContactTypeManual
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}
