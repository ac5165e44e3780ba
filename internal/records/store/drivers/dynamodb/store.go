// Package dynamodb stores clients and accounts in DynamoDB. Account number
// uniqueness is enforced with constraint items written in the same
// transaction as the accounts they guard.
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/aussiebroadwan/records/internal/records/store"
)

// MaxBatch is the largest account batch CreateMany accepts. Each account
// takes two of the 100 items a DynamoDB transaction allows.
const MaxBatch = 50

var ErrBatchTooLarge = errors.New("dynamodb: account batch too large")

// API is the subset of the DynamoDB client the store uses.
type API interface {
	GetItem(ctx context.Context, in *ddb.GetItemInput, opts ...func(*ddb.Options)) (*ddb.GetItemOutput, error)
	PutItem(ctx context.Context, in *ddb.PutItemInput, opts ...func(*ddb.Options)) (*ddb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *ddb.UpdateItemInput, opts ...func(*ddb.Options)) (*ddb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, in *ddb.DeleteItemInput, opts ...func(*ddb.Options)) (*ddb.DeleteItemOutput, error)
	Scan(ctx context.Context, in *ddb.ScanInput, opts ...func(*ddb.Options)) (*ddb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, in *ddb.TransactWriteItemsInput, opts ...func(*ddb.Options)) (*ddb.TransactWriteItemsOutput, error)
	DescribeTable(ctx context.Context, in *ddb.DescribeTableInput, opts ...func(*ddb.Options)) (*ddb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, in *ddb.CreateTableInput, opts ...func(*ddb.Options)) (*ddb.CreateTableOutput, error)
}

// Config names the three tables the store uses.
type Config struct {
	ClientsTable  string
	AccountsTable string
	UniqueTable   string
}

func DefaultConfig() Config {
	return Config{
		ClientsTable:  "records_clients",
		AccountsTable: "records_accounts",
		UniqueTable:   "records_unique",
	}
}

func (c *Config) validate() {
	def := DefaultConfig()
	if c.ClientsTable == "" {
		c.ClientsTable = def.ClientsTable
	}
	if c.AccountsTable == "" {
		c.AccountsTable = def.AccountsTable
	}
	if c.UniqueTable == "" {
		c.UniqueTable = def.UniqueTable
	}
}

type Store struct {
	api API
	cfg Config
	now func() time.Time
}

// New creates a Store over an existing client.
func New(api API, cfg Config) *Store {
	cfg.validate()
	return &Store{
		api: api,
		cfg: cfg,
		now: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// Open loads the default AWS configuration for region and connects. A
// non-empty endpoint overrides the service endpoint (DynamoDB Local).
func Open(ctx context.Context, region, endpoint string, cfg Config) (*Store, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := ddb.NewFromConfig(awsCfg, func(o *ddb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return New(client, cfg), nil
}

func (s *Store) Clients() store.Clients {
	return &clientsRepo{api: s.api, table: s.cfg.ClientsTable, now: s.now}
}

func (s *Store) Accounts() store.Accounts {
	return &accountsRepo{api: s.api, table: s.cfg.AccountsTable, unique: s.cfg.UniqueTable, now: s.now}
}

// Ping describes the clients table.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.api.DescribeTable(ctx, &ddb.DescribeTableInput{TableName: aws.String(s.cfg.ClientsTable)})
	return store.Wrap("ping", err)
}

// Close is a no-op; the SDK client holds no resources that need releasing.
func (s *Store) Close() error { return nil }

// ApplyMigrations creates any missing table with on-demand billing.
func (s *Store) ApplyMigrations() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for table, key := range map[string]string{
		s.cfg.ClientsTable:  "id",
		s.cfg.AccountsTable: "id",
		s.cfg.UniqueTable:   "pk",
	} {
		if err := s.ensureTable(ctx, table, key); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) ensureTable(ctx context.Context, table, key string) error {
	_, err := s.api.DescribeTable(ctx, &ddb.DescribeTableInput{TableName: aws.String(table)})
	if err == nil {
		return nil
	}
	var nf *types.ResourceNotFoundException
	if !errors.As(err, &nf) {
		return fmt.Errorf("describe table %s: %w", table, err)
	}

	_, err = s.api.CreateTable(ctx, &ddb.CreateTableInput{
		TableName: aws.String(table),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(key), KeyType: types.KeyTypeHash},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(key), AttributeType: types.ScalarAttributeTypeS},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	return nil
}

// scanAll reads every item of table. Filter expressions would not lower the
// consumed read capacity, so filtering happens on the caller side.
func scanAll(ctx context.Context, api API, table string) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue

	p := ddb.NewScanPaginator(api, &ddb.ScanInput{TableName: aws.String(table)})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
	}
	return items, nil
}

func conditionFailed(err error) bool {
	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return true
	}
	var txErr *types.TransactionCanceledException
	if errors.As(err, &txErr) {
		for _, reason := range txErr.CancellationReasons {
			if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
				return true
			}
		}
	}
	return false
}

func str(v string) types.AttributeValue { return &types.AttributeValueMemberS{Value: v} }

func idKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"id": str(id)}
}

func toMillis(t time.Time) int64    { return t.UnixMilli() }
func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }
