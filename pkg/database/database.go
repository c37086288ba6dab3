package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/microsoft/go-mssqldb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	_ "modernc.org/sqlite"
)

// DefaultMongoDatabase is used when a mongodb target names no database.
const DefaultMongoDatabase = "uncoupledetl"

const (
	pingTimeout    = 5 * time.Second
	connectTimeout = 10 * time.Second
)

// Target is a parsed load destination.
type Target struct {
	Raw     string
	Scheme  string
	DSN     string  // connection string handed to the driver
	Dialect Dialect // zero for document targets

	Document bool   // mongodb target
	Database string // mongodb database name
}

// ParseTarget recognises sqlite://, sqlserver://, postgres://,
// postgresql://, mysql://, mongodb:// and mongodb+srv:// targets.
func ParseTarget(raw string) (Target, error) {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok || rest == "" {
		return Target{}, fmt.Errorf("invalid target %q: expected <scheme>://<address>", raw)
	}
	t := Target{Raw: raw, Scheme: strings.ToLower(scheme)}

	switch t.Scheme {
	case "sqlite":
		t.Dialect = SQLite
		sep := "?"
		if strings.Contains(rest, "?") {
			sep = "&"
		}
		t.DSN = rest + sep + "_pragma=busy_timeout(5000)"
	case "sqlserver":
		t.Dialect = SQLServer
		t.DSN = raw
	case "postgres", "postgresql":
		t.Dialect = Postgres
		t.DSN = raw
	case "mysql":
		if _, err := mysql.ParseDSN(rest); err != nil {
			return Target{}, fmt.Errorf("invalid mysql target: %w", err)
		}
		t.Dialect = MySQL
		t.DSN = rest
	case "mongodb", "mongodb+srv":
		u, err := url.Parse(raw)
		if err != nil {
			return Target{}, fmt.Errorf("invalid mongodb target: %w", err)
		}
		t.Document = true
		t.DSN = raw
		t.Database = strings.Trim(u.Path, "/")
		if t.Database == "" {
			t.Database = DefaultMongoDatabase
		}
	default:
		return Target{}, fmt.Errorf("unsupported target scheme %q", scheme)
	}
	return t, nil
}

// Redacted returns the target with any password masked, for logging.
func (t Target) Redacted() string {
	u, err := url.Parse(t.Raw)
	if err != nil || u.User == nil {
		return t.Raw
	}
	return u.Redacted()
}

// OpenSQL opens a single-connection handle to a relational target and
// verifies it with a ping.
func OpenSQL(ctx context.Context, t Target) (*sql.DB, error) {
	if t.Document {
		return nil, fmt.Errorf("target %s is not a relational database", t.Scheme)
	}
	db, err := sql.Open(t.Dialect.Driver, t.DSN)
	if err != nil {
		return nil, fmt.Errorf("error opening %s database: %w", t.Dialect.Driver, err)
	}
	// One load is one session; no pooling across stages.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to %s database (ping failed): %w", t.Dialect.Driver, err)
	}
	return db, nil
}

// ConnectMongo connects to a MongoDB deployment and verifies it with a ping.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("error creating MongoDB client: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, pingTimeout)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), pingTimeout)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)

		return nil, fmt.Errorf("error connecting to MongoDB (ping failed): %w", err)
	}
	return client, nil
}

// SupportsTransactions reports whether client is connected to a replica set
// member or a mongos router. A standalone mongod rejects transactions.
func SupportsTransactions(ctx context.Context, client *mongo.Client) (bool, error) {
	var reply bson.M
	cmd := bson.D{{Key: "hello", Value: 1}}
	if err := client.Database("admin").RunCommand(ctx, cmd).Decode(&reply); err != nil {
		return false, fmt.Errorf("error running hello: %w", err)
	}
	return transactionCapable(reply), nil
}

func transactionCapable(reply bson.M) bool {
	if name, _ := reply["setName"].(string); name != "" {
		return true
	}
	msg, _ := reply["msg"].(string)
	return msg == "isdbgrid"
}
