// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// catalog is the part of one PostgreSQL schema that maps to a data model.
type catalog struct {
	Schema  string
	Comment string
	Tables  []table
	Enums   []enumType
}

// table is a base or partitioned table.
type table struct {
	Name        string
	Comment     string
	Columns     []column
	PrimaryKey  []string
	ForeignKeys []foreignKey
}

// column is one live table column.
type column struct {
	Name    string
	Comment string
	// Type is the type name, resolved through domains.
	Type string
	// TypeKind is pg_type.typtype of Type: b, e, c, r, m or p.
	TypeKind string
	// Element is the element type name of an array column.
	Element     string
	ElementKind string
	NotNull     bool
}

// foreignKey is one foreign key constraint with paired columns.
type foreignKey struct {
	Name       string
	Table      string
	Columns    []string
	RefColumns []string
}

// enumType is a user-defined enum type with labels in sort order.
type enumType struct {
	Name    string
	Comment string
	Labels  []string
}

// queryer is the subset of *sql.DB used to read the catalog.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const schemaQuery = `
SELECT COALESCE(obj_description(n.oid, 'pg_namespace'), '')
FROM pg_catalog.pg_namespace n
WHERE n.nspname = $1`

const tablesQuery = `
SELECT c.relname, COALESCE(obj_description(c.oid, 'pg_class'), '')
FROM pg_catalog.pg_class c
JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
WHERE n.nspname = $1 AND c.relkind IN ('r', 'p') AND NOT c.relispartition
ORDER BY c.relname`

const columnsQuery = `
SELECT c.relname, a.attname,
       COALESCE(col_description(a.attrelid, a.attnum), ''),
       COALESCE(b.typname, t.typname),
       COALESCE(b.typtype, t.typtype)::text,
       COALESCE(e.typname, ''),
       COALESCE(e.typtype::text, ''),
       a.attnotnull
FROM pg_catalog.pg_attribute a
JOIN pg_catalog.pg_class c ON c.oid = a.attrelid
JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
JOIN pg_catalog.pg_type t ON t.oid = a.atttypid
LEFT JOIN pg_catalog.pg_type b ON t.typtype = 'd' AND b.oid = t.typbasetype
LEFT JOIN pg_catalog.pg_type e ON e.oid = COALESCE(b.typelem, t.typelem)
     AND COALESCE(b.typcategory, t.typcategory) = 'A'
WHERE n.nspname = $1 AND c.relkind IN ('r', 'p') AND NOT c.relispartition
  AND a.attnum > 0 AND NOT a.attisdropped
ORDER BY c.relname, a.attnum`

const primaryKeysQuery = `
SELECT c.relname, a.attname
FROM pg_catalog.pg_constraint k
JOIN pg_catalog.pg_class c ON c.oid = k.conrelid
JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
CROSS JOIN LATERAL unnest(k.conkey) WITH ORDINALITY AS cols(attnum, ord)
JOIN pg_catalog.pg_attribute a ON a.attrelid = k.conrelid AND a.attnum = cols.attnum
WHERE n.nspname = $1 AND k.contype = 'p'
ORDER BY c.relname, cols.ord`

const foreignKeysQuery = `
SELECT c.relname, k.conname, r.relname, a.attname, ra.attname
FROM pg_catalog.pg_constraint k
JOIN pg_catalog.pg_class c ON c.oid = k.conrelid
JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
JOIN pg_catalog.pg_class r ON r.oid = k.confrelid
JOIN pg_catalog.pg_namespace rn ON rn.oid = r.relnamespace
CROSS JOIN LATERAL unnest(k.conkey, k.confkey) WITH ORDINALITY AS cols(attnum, refnum, ord)
JOIN pg_catalog.pg_attribute a ON a.attrelid = k.conrelid AND a.attnum = cols.attnum
JOIN pg_catalog.pg_attribute ra ON ra.attrelid = k.confrelid AND ra.attnum = cols.refnum
WHERE n.nspname = $1 AND rn.nspname = $1 AND k.contype = 'f'
ORDER BY c.relname, k.conname, cols.ord`

const enumsQuery = `
SELECT t.typname, COALESCE(obj_description(t.oid, 'pg_type'), ''), e.enumlabel
FROM pg_catalog.pg_type t
JOIN pg_catalog.pg_namespace n ON n.oid = t.typnamespace
JOIN pg_catalog.pg_enum e ON e.enumtypid = t.oid
WHERE n.nspname = $1
ORDER BY t.typname, e.enumsortorder`

// readCatalog reads tables, columns, keys and enum types of schema.
func readCatalog(ctx context.Context, db queryer, schema string) (*catalog, error) {
	out := &catalog{Schema: schema}

	if err := db.QueryRowContext(ctx, schemaQuery, schema).Scan(&out.Comment); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w %q", ErrUnknownSchema, schema)
		}

		return nil, fmt.Errorf("%w: schema: %w", ErrQueryCatalog, err)
	}

	tables := make(map[string]*table)
	err := queryRows(ctx, db, tablesQuery, schema, func(rows *sql.Rows) error {
		var item table
		if err := rows.Scan(&item.Name, &item.Comment); err != nil {
			return err
		}

		out.Tables = append(out.Tables, item)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: tables: %w", ErrQueryCatalog, err)
	}

	for i := range out.Tables {
		tables[out.Tables[i].Name] = &out.Tables[i]
	}

	err = queryRows(ctx, db, columnsQuery, schema, func(rows *sql.Rows) error {
		var (
			owner string
			item  column
		)
		if err := rows.Scan(&owner, &item.Name, &item.Comment, &item.Type, &item.TypeKind,
			&item.Element, &item.ElementKind, &item.NotNull); err != nil {
			return err
		}

		if target, ok := tables[owner]; ok {
			target.Columns = append(target.Columns, item)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: columns: %w", ErrQueryCatalog, err)
	}

	err = queryRows(ctx, db, primaryKeysQuery, schema, func(rows *sql.Rows) error {
		var owner, name string
		if err := rows.Scan(&owner, &name); err != nil {
			return err
		}

		if target, ok := tables[owner]; ok {
			target.PrimaryKey = append(target.PrimaryKey, name)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: primary keys: %w", ErrQueryCatalog, err)
	}

	err = queryRows(ctx, db, foreignKeysQuery, schema, func(rows *sql.Rows) error {
		var owner, name, target, source, destination string
		if err := rows.Scan(&owner, &name, &target, &source, &destination); err != nil {
			return err
		}

		item, ok := tables[owner]
		if !ok {
			return nil
		}

		last := len(item.ForeignKeys) - 1
		if last < 0 || item.ForeignKeys[last].Name != name {
			item.ForeignKeys = append(item.ForeignKeys, foreignKey{Name: name, Table: target})
			last++
		}

		item.ForeignKeys[last].Columns = append(item.ForeignKeys[last].Columns, source)
		item.ForeignKeys[last].RefColumns = append(item.ForeignKeys[last].RefColumns, destination)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: foreign keys: %w", ErrQueryCatalog, err)
	}

	err = queryRows(ctx, db, enumsQuery, schema, func(rows *sql.Rows) error {
		var name, comment, label string
		if err := rows.Scan(&name, &comment, &label); err != nil {
			return err
		}

		last := len(out.Enums) - 1
		if last < 0 || out.Enums[last].Name != name {
			out.Enums = append(out.Enums, enumType{Name: name, Comment: comment})
			last++
		}

		out.Enums[last].Labels = append(out.Enums[last].Labels, label)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: enum types: %w", ErrQueryCatalog, err)
	}

	return out, nil
}

// queryRows runs query with schema and calls scan for every row.
func queryRows(ctx context.Context, db queryer, query, schema string, scan func(*sql.Rows) error) error {
	rows, err := db.QueryContext(ctx, query, schema)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}

	return rows.Err()
}
