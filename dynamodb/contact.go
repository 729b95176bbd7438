package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"phonebook/contact"
	"phonebook/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

const (
	attrID      = "id"
	attrCounter = "next_id"

	// counterID is the item holding the id sequence. Contact ids start at 1.
	counterID = 0
)

// ErrItemTooLarge is returned when a contact, usually because of its image,
// does not fit into a single DynamoDB item (400 KB).
var ErrItemTooLarge = errs.Errorf(errs.ETOOLARGE, "contact is too large for the store")

type contactItem struct {
	ID       int64  `dynamodbav:"id"`
	Name     string `dynamodbav:"name"`
	Phone    string `dynamodbav:"phone"`
	Email    string `dynamodbav:"email"`
	Address  string `dynamodbav:"address"`
	Notes    string `dynamodbav:"notes"`
	Image    string `dynamodbav:"image"`
	Favorite bool   `dynamodbav:"favorite"`
}

func newContactItem(c contact.Contact) contactItem {
	return contactItem{
		ID:       c.ID,
		Name:     c.Name,
		Phone:    c.Phone,
		Email:    c.Email,
		Address:  c.Address,
		Notes:    c.Notes,
		Image:    c.Image,
		Favorite: c.Favorite,
	}
}

func (i contactItem) contact() contact.Contact {
	return contact.Contact{
		ID:       i.ID,
		Name:     i.Name,
		Phone:    i.Phone,
		Email:    i.Email,
		Address:  i.Address,
		Notes:    i.Notes,
		Image:    i.Image,
		Favorite: i.Favorite,
	}
}

// ContactRepository implements contact.Repository on a single table. Ids come
// from an atomic counter item so they are never reused.
type ContactRepository struct {
	client *dynamodb.Client
	table  string
}

func NewContactRepository(client *dynamodb.Client, table string) *ContactRepository {
	return &ContactRepository{
		client: client,
		table:  table,
	}
}

func (r *ContactRepository) CreateContact(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	if err := validateTable(r.table); err != nil {
		return contact.Contact{}, err
	}

	id, err := r.nextID(ctx)
	if err != nil {
		return contact.Contact{}, err
	}
	c.ID = id

	av, err := attributevalue.MarshalMap(newContactItem(c))
	if err != nil {
		return contact.Contact{}, fmt.Errorf("dynamodb: marshal contact: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &r.table,
		Item:      av,
	})
	if err != nil {
		return contact.Contact{}, wrapError("put contact", err)
	}

	return c, nil
}

func (r *ContactRepository) nextID(ctx context.Context) (int64, error) {
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        &r.table,
		Key:              key(counterID),
		UpdateExpression: aws.String("ADD " + attrCounter + " :one"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, fmt.Errorf("dynamodb: next contact id: %w", err)
	}

	var counter struct {
		Next int64 `dynamodbav:"next_id"`
	}
	if err := attributevalue.UnmarshalMap(out.Attributes, &counter); err != nil {
		return 0, fmt.Errorf("dynamodb: unmarshal contact id: %w", err)
	}
	return counter.Next, nil
}

func (r *ContactRepository) AllContacts(ctx context.Context) ([]contact.Contact, error) {
	if err := validateTable(r.table); err != nil {
		return nil, err
	}

	contacts := []contact.Contact{}
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:      &r.table,
		ConsistentRead: aws.Bool(true),
	})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamodb: scan contacts: %w", err)
		}

		var items []contactItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, fmt.Errorf("dynamodb: unmarshal contacts: %w", err)
		}
		for _, item := range items {
			if item.ID == counterID {
				continue
			}
			contacts = append(contacts, item.contact())
		}
	}

	slices.SortFunc(contacts, func(a, b contact.Contact) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return contacts, nil
}

func (r *ContactRepository) UpdateContact(ctx context.Context, id int64, p contact.Patch) (contact.Contact, error) {
	if err := validateTable(r.table); err != nil {
		return contact.Contact{}, err
	}
	if id <= counterID {
		return contact.Contact{}, contact.ErrContactNotFound
	}

	expr, ok, err := updateExpression(p)
	if err != nil {
		return contact.Contact{}, fmt.Errorf("dynamodb: build update: %w", err)
	}
	if !ok {
		return r.getContact(ctx, id)
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 &r.table,
		Key:                       key(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return contact.Contact{}, wrapError("update contact", err)
	}

	var item contactItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &item); err != nil {
		return contact.Contact{}, fmt.Errorf("dynamodb: unmarshal contact: %w", err)
	}
	return item.contact(), nil
}

func (r *ContactRepository) getContact(ctx context.Context, id int64) (contact.Contact, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      &r.table,
		Key:            key(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return contact.Contact{}, fmt.Errorf("dynamodb: get contact: %w", err)
	}
	if out.Item == nil {
		return contact.Contact{}, contact.ErrContactNotFound
	}

	var item contactItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return contact.Contact{}, fmt.Errorf("dynamodb: unmarshal contact: %w", err)
	}
	return item.contact(), nil
}

func (r *ContactRepository) DeleteContact(ctx context.Context, id int64) error {
	if err := validateTable(r.table); err != nil {
		return err
	}
	if id <= counterID {
		return nil
	}

	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &r.table,
		Key:       key(id),
	})
	if err != nil {
		return fmt.Errorf("dynamodb: delete contact: %w", err)
	}
	return nil
}

// updateExpression sets every field present in p on an existing item. It
// reports false when p has no fields.
func updateExpression(p contact.Patch) (expression.Expression, bool, error) {
	var (
		update expression.UpdateBuilder
		set    bool
	)
	add := func(name string, value any) {
		update = update.Set(expression.Name(name), expression.Value(value))
		set = true
	}

	fields := []struct {
		name  string
		value *string
	}{
		{"name", p.Name},
		{"phone", p.Phone},
		{"email", p.Email},
		{"address", p.Address},
		{"notes", p.Notes},
		{"image", p.Image},
	}
	for _, f := range fields {
		if f.value != nil {
			add(f.name, *f.value)
		}
	}
	if p.Favorite != nil {
		add("favorite", *p.Favorite)
	}
	if !set {
		return expression.Expression{}, false, nil
	}

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name(attrID))).
		Build()
	return expr, true, err
}

func key(id int64) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrID: &types.AttributeValueMemberN{Value: strconv.FormatInt(id, 10)},
	}
}

func wrapError(op string, err error) error {
	var condition *types.ConditionalCheckFailedException
	if errors.As(err, &condition) {
		return contact.ErrContactNotFound
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ValidationException" &&
		strings.Contains(strings.ToLower(apiErr.ErrorMessage()), "size") {
		return ErrItemTooLarge
	}

	return fmt.Errorf("dynamodb: %s: %w", op, err)
}
