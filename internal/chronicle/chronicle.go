package chronicle

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pixil98/go-aeternus/internal/combat"
	"github.com/pixil98/go-aeternus/internal/vnum"
)

const queueSize = 4096

// Death is one entry in the death register.
type Death struct {
	Room   vnum.VNum
	Victim string
	Killer string
	Method string
	Player bool
	At     time.Time
}

// ApexChange records a region getting a new dominant NPC.
type ApexChange struct {
	Region int
	NPCID  string
	Title  string
	Threat int
	At     time.Time
}

// Evolution records an NPC growing stronger.
type Evolution struct {
	NPCID    string
	Name     string
	Stage    int
	OldMaxHP int
	NewMaxHP int
	At       time.Time
}

type entry struct {
	death     *Death
	apex      *ApexChange
	evolution *Evolution
}

// Chronicle journals notable world events to SQLite. Records are queued and
// written by a single goroutine so callers never wait on the disk.
type Chronicle struct {
	db *sql.DB

	mu     sync.RWMutex
	ch     chan entry
	wg     sync.WaitGroup
	closed bool
}

func Open(path string) (*Chronicle, error) {
	if path == "" {
		return nil, fmt.Errorf("empty chronicle path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening chronicle: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	c := &Chronicle{
		db: db,
		ch: make(chan entry, queueSize),
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.loop()
	}()
	return c, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		`CREATE TABLE IF NOT EXISTS deaths (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			room INTEGER NOT NULL,
			victim TEXT NOT NULL,
			killer TEXT NOT NULL,
			method TEXT NOT NULL,
			player INTEGER NOT NULL,
			at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS apex_changes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			region INTEGER NOT NULL,
			npc_id TEXT NOT NULL,
			title TEXT NOT NULL,
			threat INTEGER NOT NULL,
			at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS evolutions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			npc_id TEXT NOT NULL,
			name TEXT NOT NULL,
			stage INTEGER NOT NULL,
			old_max_hp INTEGER NOT NULL,
			new_max_hp INTEGER NOT NULL,
			at TEXT NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("initialising chronicle: %w", err)
		}
	}
	return nil
}

// Start blocks until ctx is done and then closes the chronicle.
func (c *Chronicle) Start(ctx context.Context) error {
	<-ctx.Done()
	return c.Close()
}

// Close drains the queue and closes the database.
func (c *Chronicle) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.ch)
	c.mu.Unlock()

	c.wg.Wait()
	return c.db.Close()
}

func (c *Chronicle) RecordDeath(d Death) {
	c.enqueue(entry{death: &d})
}

func (c *Chronicle) RecordApex(a ApexChange) {
	c.enqueue(entry{apex: &a})
}

func (c *Chronicle) RecordEvolution(e Evolution) {
	c.enqueue(entry{evolution: &e})
}

// OnDeath journals a combat death.
func (c *Chronicle) OnDeath(_ context.Context, ev combat.DeathEvent) {
	_, player := ev.Victim.(*combat.PlayerFighter)
	c.RecordDeath(Death{
		Room:   ev.Room,
		Victim: ev.Victim.Name(),
		Killer: ev.Killer.Name(),
		Method: string(ev.Method),
		Player: player,
		At:     ev.At,
	})
}

func (c *Chronicle) enqueue(e entry) {
	if c == nil {
		return
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.ch <- e:
	default:
		slog.Warn("chronicle queue full, dropping entry")
	}
}

func (c *Chronicle) loop() {
	for e := range c.ch {
		if err := c.write(e); err != nil {
			slog.Error("writing chronicle entry", "error", err)
		}
	}
}

func (c *Chronicle) write(e entry) error {
	var err error
	switch {
	case e.death != nil:
		d := e.death
		_, err = c.db.Exec(`INSERT INTO deaths(room, victim, killer, method, player, at) VALUES(?,?,?,?,?,?)`,
			int64(d.Room), d.Victim, d.Killer, d.Method, d.Player, formatTime(d.At))
	case e.apex != nil:
		a := e.apex
		_, err = c.db.Exec(`INSERT INTO apex_changes(region, npc_id, title, threat, at) VALUES(?,?,?,?,?)`,
			a.Region, a.NPCID, a.Title, a.Threat, formatTime(a.At))
	case e.evolution != nil:
		ev := e.evolution
		_, err = c.db.Exec(`INSERT INTO evolutions(npc_id, name, stage, old_max_hp, new_max_hp, at) VALUES(?,?,?,?,?,?)`,
			ev.NPCID, ev.Name, ev.Stage, ev.OldMaxHP, ev.NewMaxHP, formatTime(ev.At))
	}
	return err
}

// Recent returns the latest n deaths, newest first.
func (c *Chronicle) Recent(ctx context.Context, n int) ([]Death, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT room, victim, killer, method, player, at FROM deaths ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying deaths: %w", err)
	}
	defer rows.Close()

	var out []Death
	for rows.Next() {
		var (
			d    Death
			room int64
			at   string
		)
		if err := rows.Scan(&room, &d.Victim, &d.Killer, &d.Method, &d.Player, &at); err != nil {
			return nil, fmt.Errorf("scanning death: %w", err)
		}
		d.Room = vnum.VNum(room)
		d.At, _ = time.Parse(time.RFC3339Nano, at)
		out = append(out, d)
	}
	return out, rows.Err()
}

// ApexHistory returns every crowning in region, oldest first.
func (c *Chronicle) ApexHistory(ctx context.Context, region int) ([]ApexChange, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT region, npc_id, title, threat, at FROM apex_changes WHERE region = ? ORDER BY id`, region)
	if err != nil {
		return nil, fmt.Errorf("querying apex changes: %w", err)
	}
	defer rows.Close()

	var out []ApexChange
	for rows.Next() {
		var (
			a  ApexChange
			at string
		)
		if err := rows.Scan(&a.Region, &a.NPCID, &a.Title, &a.Threat, &at); err != nil {
			return nil, fmt.Errorf("scanning apex change: %w", err)
		}
		a.At, _ = time.Parse(time.RFC3339Nano, at)
		out = append(out, a)
	}
	return out, rows.Err()
}

// Evolutions counts the evolutions journaled for an NPC instance.
func (c *Chronicle) Evolutions(ctx context.Context, npcID string) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM evolutions WHERE npc_id = ?`, npcID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting evolutions: %w", err)
	}
	return n, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339Nano)
}
