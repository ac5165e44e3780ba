package dynamodb

import (
	"context"
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

type clientItem struct {
	ID         string `dynamodbav:"id"`
	Name       string `dynamodbav:"name,omitempty"`
	Address    string `dynamodbav:"address,omitempty"`
	PostalCode string `dynamodbav:"postal_code,omitempty"`
	Phone      string `dynamodbav:"phone,omitempty"`
	Email      string `dynamodbav:"email,omitempty"`
	DOB        string `dynamodbav:"dob,omitempty"`
	CreatedAt  int64  `dynamodbav:"created_at"`
	UpdatedAt  int64  `dynamodbav:"updated_at"`
}

func (it clientItem) domain() domain.Client {
	return domain.Client{
		ID:          it.ID,
		Name:        it.Name,
		Address:     it.Address,
		PostalCode:  it.PostalCode,
		Phone:       it.Phone,
		Email:       it.Email,
		DOB:         it.DOB,
		Created:     fromMillis(it.CreatedAt),
		LastUpdated: fromMillis(it.UpdatedAt),
	}
}

func clientMatches(c domain.Client, f domain.ClientFilter) bool {
	eq := func(want, got string) bool { return want == "" || want == got }
	if !eq(f.ID, c.ID) || !eq(f.Name, c.Name) || !eq(f.Address, c.Address) ||
		!eq(f.PostalCode, c.PostalCode) || !eq(f.Phone, c.Phone) || !eq(f.Email, c.Email) {
		return false
	}
	if f.BornOnOrBefore != "" && (c.DOB == "" || c.DOB > f.BornOnOrBefore) {
		return false
	}
	if f.BornAfter != "" && (c.DOB == "" || c.DOB <= f.BornAfter) {
		return false
	}
	return true
}

type clientsRepo struct {
	api   API
	table string
	now   func() time.Time
}

func (r *clientsRepo) Find(ctx context.Context, f domain.ClientFilter, limit int) ([]domain.Client, error) {
	raw, err := scanAll(ctx, r.api, r.table)
	if err != nil {
		return nil, store.Wrap("clients.find", err)
	}

	var items []clientItem
	if err := attributevalue.UnmarshalListOfMaps(raw, &items); err != nil {
		return nil, store.Wrap("clients.find", err)
	}

	// ULIDs sort in creation order.
	slices.SortFunc(items, func(a, b clientItem) int { return strings.Compare(a.ID, b.ID) })

	clients := []domain.Client{}
	for _, it := range items {
		c := it.domain()
		if !clientMatches(c, f) {
			continue
		}
		clients = append(clients, c)
		if limit > 0 && len(clients) == limit {
			break
		}
	}
	return clients, nil
}

func (r *clientsRepo) FindOne(ctx context.Context, f domain.ClientFilter) (domain.Client, error) {
	if f.ID == "" {
		found, err := r.Find(ctx, f, 1)
		if err != nil {
			return domain.Client{}, err
		}
		if len(found) == 0 {
			return domain.Client{}, store.ErrNotFound
		}
		return found[0], nil
	}

	out, err := r.api.GetItem(ctx, &ddb.GetItemInput{
		TableName:      aws.String(r.table),
		Key:            idKey(f.ID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return domain.Client{}, store.Wrap("clients.find_one", err)
	}
	if out.Item == nil {
		return domain.Client{}, store.ErrNotFound
	}

	var it clientItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return domain.Client{}, store.Wrap("clients.find_one", err)
	}
	c := it.domain()
	if !clientMatches(c, f) {
		return domain.Client{}, store.ErrNotFound
	}
	return c, nil
}

func (r *clientsRepo) Create(ctx context.Context, c domain.Client) (domain.Client, error) {
	if c.ID == "" {
		c.ID = idx.New().String()
	}
	now := r.now()
	c.Created, c.LastUpdated = now, now

	item, err := attributevalue.MarshalMap(clientItem{
		ID:         c.ID,
		Name:       c.Name,
		Address:    c.Address,
		PostalCode: c.PostalCode,
		Phone:      c.Phone,
		Email:      c.Email,
		DOB:        c.DOB,
		CreatedAt:  toMillis(c.Created),
		UpdatedAt:  toMillis(c.LastUpdated),
	})
	if err != nil {
		return domain.Client{}, store.Wrap("clients.create", err)
	}

	_, err = r.api.PutItem(ctx, &ddb.PutItemInput{
		TableName:                aws.String(r.table),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": "id"},
	})
	if conditionFailed(err) {
		return domain.Client{}, store.ErrAlreadyExists
	}
	if err != nil {
		return domain.Client{}, store.Wrap("clients.create", err)
	}
	return c, nil
}

func (r *clientsRepo) UpdateOne(ctx context.Context, id string, p domain.ClientPatch) (domain.Client, error) {
	u := newUpdate(toMillis(r.now()))
	u.field("name", p.Name)
	u.field("address", p.Address)
	u.field("postal_code", p.PostalCode)
	u.field("phone", p.Phone)
	u.field("email", p.Email)
	u.field("dob", p.DOB)
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
		return domain.Client{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Client{}, store.Wrap("clients.update", err)
	}

	var it clientItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return domain.Client{}, store.Wrap("clients.update", err)
	}
	return it.domain(), nil
}

func (r *clientsRepo) RemoveOne(ctx context.Context, id string) (int64, error) {
	out, err := r.api.DeleteItem(ctx, &ddb.DeleteItemInput{
		TableName:    aws.String(r.table),
		Key:          idKey(id),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return 0, store.Wrap("clients.remove", err)
	}
	if len(out.Attributes) == 0 {
		return 0, nil
	}
	return 1, nil
}

func (r *clientsRepo) RemoveByID(ctx context.Context, id string) error {
	_, err := r.api.DeleteItem(ctx, &ddb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key:       idKey(id),
	})
	return store.Wrap("clients.remove_by_id", err)
}
