package dynamodb

import (
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// update builds a partial-update expression: supplied fields are SET, fields
// supplied as "" are REMOVEd, and updated_at is always bumped.
type update struct {
	set    []string
	remove []string
	names  map[string]string
	values map[string]types.AttributeValue
}

func newUpdate(updatedAt int64) *update {
	return &update{
		set:    []string{"#updated_at = :updated_at"},
		names:  map[string]string{"#updated_at": "updated_at"},
		values: map[string]types.AttributeValue{":updated_at": &types.AttributeValueMemberN{Value: strconv.FormatInt(updatedAt, 10)}},
	}
}

func (u *update) field(attr string, v *string) {
	if v == nil {
		return
	}
	name := "#" + attr
	u.names[name] = attr
	if *v == "" {
		u.remove = append(u.remove, name)
		return
	}
	u.set = append(u.set, name+" = :"+attr)
	u.values[":"+attr] = str(*v)
}

func (u *update) expression() string {
	expr := "SET " + strings.Join(u.set, ", ")
	if len(u.remove) > 0 {
		expr += " REMOVE " + strings.Join(u.remove, ", ")
	}
	return expr
}
