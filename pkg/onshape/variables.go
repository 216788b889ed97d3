package onshape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Variable is one entry of a Part Studio's variable table. Identity is
// Name; uniqueness is enforced remotely.
type Variable struct {
	Type        string `json:"type,omitempty"`
	Name        string `json:"name"`
	Expression  string `json:"expression"`
	Description string `json:"description,omitempty"`
	Units       string `json:"units,omitempty"`
}

// Variables fetches the variable table of the element.
func (c *Client) Variables(ctx context.Context, ref DocumentRef) ([]Variable, error) {
	data, err := c.do(ctx, http.MethodGet, ref.partStudioPath("variables"), nil, nil, acceptJSON)
	if err != nil {
		return nil, err
	}

	var vars []Variable
	if err := json.Unmarshal(data, &vars); err != nil {
		return nil, fmt.Errorf("parse variable table: %w", err)
	}
	return vars, nil
}

// UpdateVariable sets the named variable to value. The match is exact
// and case-sensitive. Only the matched entry's expression is rewritten;
// its units and every sibling entry round-trip untouched, so re-issuing
// the same update is safe.
func (c *Client) UpdateVariable(ctx context.Context, ref DocumentRef, name string, value float64) error {
	vars, err := c.Variables(ctx, ref)
	if err != nil {
		return err
	}

	found := false
	for i := range vars {
		if vars[i].Name == name {
			vars[i].Expression = strconv.FormatFloat(value, 'f', -1, 64)
			found = true
			break
		}
	}
	if !found {
		names := make([]string, 0, len(vars))
		for _, v := range vars {
			names = append(names, v.Name)
		}
		return &Error{
			Kind:    KindVariableNotFound,
			Message: fmt.Sprintf("variable %q not found (available: %s)", name, strings.Join(names, ", ")),
		}
	}

	body, err := json.Marshal(vars)
	if err != nil {
		return fmt.Errorf("marshal variable table: %w", err)
	}

	_, err = c.do(ctx, http.MethodPost, ref.partStudioPath("variables"), nil, body, acceptJSON)
	return err
}
