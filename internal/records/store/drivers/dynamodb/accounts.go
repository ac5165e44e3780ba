package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/aussiebroadwan/records/internal/records/domain"
	"github.com/aussiebroadwan/records/internal/records/store"
	"github.com/aussiebroadwan/records/pkg/idx"
)

type accountItem struct {
	ID        string `dynamodbav:"id"`
	ClientID  string `dynamodbav:"cid"`
	Number    string `dynamodbav:"number"`
	Type      string `dynamodbav:"type,omitempty"`
	Status    string `dynamodbav:"status,omitempty"`
	CreatedAt int64  `dynamodbav:"created_at"`
	UpdatedAt int64  `dynamodbav:"updated_at"`
}

func (it accountItem) domain() domain.Account {
	return domain.Account{
		ID:          it.ID,
		ClientID:    it.ClientID,
		Number:      it.Number,
		Type:        it.Type,
		Status:      it.Status,
		Created:     fromMillis(it.CreatedAt),
		LastUpdated: fromMillis(it.UpdatedAt),
	}
}

func accountMatches(a domain.Account, f domain.AccountFilter) bool {
	eq := func(want, got string) bool { return want == "" || want == got }
	return eq(f.ClientID, a.ClientID) && eq(f.Number, a.Number) && eq(f.Type, a.Type) && eq(f.Status, a.Status)
}

// numberKey is the constraint item key reserving an account number.
func numberKey(number string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"pk": str("account#number#" + number)}
}

type accountsRepo struct {
	api    API
	table  string
	unique string
	now    func() time.Time
}

func (r *accountsRepo) Find(ctx context.Context, f domain.AccountFilter, limit int) ([]domain.Account, error) {
	raw, err := scanAll(ctx, r.api, r.table)
	if err != nil {
		return nil, store.Wrap("accounts.find", err)
	}

	var items []accountItem
	if err := attributevalue.UnmarshalListOfMaps(raw, &items); err != nil {
		return nil, store.Wrap("accounts.find", err)
	}
	slices.SortFunc(items, func(a, b accountItem) int { return strings.Compare(a.ID, b.ID) })

	accts := []domain.Account{}
	for _, it := range items {
		a := it.domain()
		if !accountMatches(a, f) {
			continue
		}
		accts = append(accts, a)
		if limit > 0 && len(accts) == limit {
			break
		}
	}
	return accts, nil
}

// FindOne resolves number lookups through the constraint item instead of
// scanning.
func (r *accountsRepo) FindOne(ctx context.Context, f domain.AccountFilter) (domain.Account, error) {
	if f.Number == "" {
		found, err := r.Find(ctx, f, 1)
		if err != nil {
			return domain.Account{}, err
		}
		if len(found) == 0 {
			return domain.Account{}, store.ErrNotFound
		}
		return found[0], nil
	}

	ref, err := r.api.GetItem(ctx, &ddb.GetItemInput{
		TableName:      aws.String(r.unique),
		Key:            numberKey(f.Number),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return domain.Account{}, store.Wrap("accounts.find_one", err)
	}
	accountID, ok := ref.Item["account_id"].(*types.AttributeValueMemberS)
	if !ok {
		return domain.Account{}, store.ErrNotFound
	}

	a, err := r.get(ctx, accountID.Value)
	if err != nil {
		return domain.Account{}, store.Wrap("accounts.find_one", err)
	}
	if !accountMatches(a, f) {
		return domain.Account{}, store.ErrNotFound
	}
	return a, nil
}

func (r *accountsRepo) get(ctx context.Context, id string) (domain.Account, error) {
	out, err := r.api.GetItem(ctx, &ddb.GetItemInput{
		TableName:      aws.String(r.table),
		Key:            idKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return domain.Account{}, err
	}
	if out.Item == nil {
		return domain.Account{}, store.ErrNotFound
	}
	var it accountItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return domain.Account{}, err
	}
	return it.domain(), nil
}

// CreateMany writes every account and its number reservation in a single
// transaction.
func (r *accountsRepo) CreateMany(ctx context.Context, accts []domain.Account) ([]domain.Account, error) {
	if len(accts) == 0 {
		return []domain.Account{}, nil
	}
	if len(accts) > MaxBatch {
		return nil, store.Wrap("accounts.create", fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(accts), MaxBatch))
	}

	now := r.now()
	out := make([]domain.Account, len(accts))
	items := make([]types.TransactWriteItem, 0, 2*len(accts))

	for i, a := range accts {
		if a.ID == "" {
			a.ID = idx.New().String()
		}
		a.Created, a.LastUpdated = now, now

		item, err := attributevalue.MarshalMap(accountItem{
			ID:        a.ID,
			ClientID:  a.ClientID,
			Number:    a.Number,
			Type:      a.Type,
			Status:    a.Status,
			CreatedAt: toMillis(a.Created),
			UpdatedAt: toMillis(a.LastUpdated),
		})
		if err != nil {
			return nil, store.Wrap("accounts.create", err)
		}

		reservation := numberKey(a.Number)
		reservation["account_id"] = str(a.ID)

		items = append(items,
			types.TransactWriteItem{Put: &types.Put{
				TableName:                aws.String(r.unique),
				Item:                     reservation,
				ConditionExpression:      aws.String("attribute_not_exists(#pk)"),
				ExpressionAttributeNames: map[string]string{"#pk": "pk"},
			}},
			types.TransactWriteItem{Put: &types.Put{
				TableName:                aws.String(r.table),
				Item:                     item,
				ConditionExpression:      aws.String("attribute_not_exists(#id)"),
				ExpressionAttributeNames: map[string]string{"#id": "id"},
			}},
		)
		out[i] = a
	}

	_, err := r.api.TransactWriteItems(ctx, &ddb.TransactWriteItemsInput{TransactItems: items})
	if conditionFailed(err) {
		return nil, store.ErrAlreadyExists
	}
	if err != nil {
		return nil, store.Wrap("accounts.create", err)
	}
	return out, nil
}

func (r *accountsRepo) UpdateOne(ctx context.Context, id string, p domain.AccountPatch) (domain.Account, error) {
	u := newUpdate(toMillis(r.now()))
	u.field("type", p.Type)
	u.field("status", p.Status)
	u.names["#id"] = "id"

	out, err := r.api.UpdateItem(ctx, &ddb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       idKey(id),
		UpdateExpression:          aws.String(u.expression()),
		ConditionExpression:       aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames:  u.names,
		ExpressionAttributeValues: u.values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if conditionFailed(err) {
		return domain.Account{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Account{}, store.Wrap("accounts.update", err)
	}

	var it accountItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return domain.Account{}, store.Wrap("accounts.update", err)
	}
	return it.domain(), nil
}

// RemoveOne deletes the account and releases its number in one transaction.
func (r *accountsRepo) RemoveOne(ctx context.Context, id string) (int64, error) {
	a, err := r.get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, store.Wrap("accounts.remove", err)
	}

	_, err = r.api.TransactWriteItems(ctx, &ddb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Delete: &types.Delete{
				TableName:                aws.String(r.table),
				Key:                      idKey(id),
				ConditionExpression:      aws.String("attribute_exists(#id)"),
				ExpressionAttributeNames: map[string]string{"#id": "id"},
			}},
			{Delete: &types.Delete{
				TableName: aws.String(r.unique),
				Key:       numberKey(a.Number),
			}},
		},
	})
	if conditionFailed(err) {
		return 0, nil
	}
	if err != nil {
		return 0, store.Wrap("accounts.remove", err)
	}
	return 1, nil
}
