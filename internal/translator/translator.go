// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

// Package translator maps the logical operations of the admin dashboard onto
// the upstream food API. Each operation validates and normalizes its input
// locally and then issues exactly one upstream call; invalid input never
// reaches the network.
//
// Every error returned is an *upstream.Error whose message is ready for
// display.
package translator

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tomtom215/masterfood/internal/logging"
	"github.com/tomtom215/masterfood/internal/models"
	"github.com/tomtom215/masterfood/internal/upstream"
)

// Upstream paths.
const (
	pathSearch            = "/search"
	pathDigitItems        = "/getxdigititems"
	pathIngredients       = "/ingredients"
	pathPatchFoodItem     = "/patch/fooditem"
	pathDeleteIngredient  = "/delete/ingredient"
	pathAddNickname       = "/addNickname"
	pathPatchNickname     = "/patch/nickName"
	pathDeleteNickname    = "/delete/nickName"
	pathNicknames         = "/get/nickName"
	pathNicknameByID      = "/get/nickName/byId"
	pathNicknameSearch    = "/get/nickName/search"
	pathMigrationNewFood  = "/migrationNewFood"
	pathMigrationNickname = "/migrationIngredientToNickname"
)

// Caller performs one upstream request. *upstream.Client implements it.
type Caller interface {
	Do(ctx context.Context, req upstream.Request) (*upstream.Response, error)
}

// Translator runs logical operations against the upstream API.
type Translator struct {
	caller Caller
}

// New returns a Translator issuing calls through caller.
func New(caller Caller) *Translator {
	return &Translator{caller: caller}
}

// mutate sends a row array and returns the decoded body as-is.
func (t *Translator) mutate(ctx context.Context, op, method, path string, rows any, count int) (any, error) {
	logging.Ctx(ctx).Debug().Str("operation", op).Int("rows", count).Msg("Dispatching upstream mutation")

	resp, err := t.caller.Do(ctx, upstream.Request{Method: method, Path: path, Body: rows})
	if err != nil {
		return nil, err
	}
	return upstream.DecodeBody(resp.Body), nil
}

// query issues a GET and returns the decoded body, unwrapped when it
// carries a data array.
func (t *Translator) query(ctx context.Context, path string, params url.Values) (any, error) {
	resp, err := t.caller.Do(ctx, upstream.Request{Method: http.MethodGet, Path: path, Query: params})
	if err != nil {
		return nil, err
	}
	return upstream.UnwrapData(upstream.DecodeBody(resp.Body)), nil
}

func emptyResult() any {
	return []any{}
}

// Search finds ingredients by keyword.
func (t *Translator) Search(ctx context.Context, keyword string) (any, error) {
	return t.query(ctx, pathSearch, url.Values{"q": {keyword}})
}

// SearchByRange lists the ingredients of a digit range bucket.
func (t *Translator) SearchByRange(ctx context.Context, digitNumber int64) (any, error) {
	return t.query(ctx, pathDigitItems, url.Values{"digitNumber": {strconv.FormatInt(digitNumber, 10)}})
}

// FetchByIDs returns the ingredients with the given ids. Ids that are not
// positive integers are ignored; when none remain no call is made.
func (t *Translator) FetchByIDs(ctx context.Context, ids []models.LooseInt) (any, error) {
	valid := positiveIDs(ids)
	if len(valid) == 0 {
		return emptyResult(), nil
	}

	resp, err := t.caller.Do(ctx, upstream.Request{Method: http.MethodPost, Path: pathIngredients, Body: valid})
	if err != nil {
		return nil, err
	}
	return upstream.UnwrapData(upstream.DecodeBody(resp.Body)), nil
}

// NicknamesByIngredient lists the nicknames of an ingredient.
func (t *Translator) NicknamesByIngredient(ctx context.Context, ingredientID int64) (any, error) {
	if ingredientID <= 0 {
		return emptyResult(), nil
	}
	return t.query(ctx, pathNicknames, url.Values{"ingredient_id": {strconv.FormatInt(ingredientID, 10)}})
}

// NicknameByID returns the nickname with the given id as a list of zero or
// one element.
func (t *Translator) NicknameByID(ctx context.Context, id int64) (any, error) {
	if id <= 0 {
		return emptyResult(), nil
	}

	resp, err := t.caller.Do(ctx, upstream.Request{
		Method: http.MethodGet,
		Path:   pathNicknameByID,
		Query:  url.Values{"id": {strconv.FormatInt(id, 10)}},
	})
	if err != nil {
		return nil, err
	}
	return asList(upstream.DecodeBody(resp.Body)), nil
}

// asList unwraps an object's data field, whatever its type, and coerces the
// result into a list.
func asList(body any) any {
	if obj, ok := body.(map[string]any); ok {
		if data, present := obj["data"]; present {
			body = data
		}
	}
	switch v := body.(type) {
	case []any:
		return v
	case map[string]any:
		return []any{v}
	default:
		return emptyResult()
	}
}

// SearchNicknames finds nicknames by keyword. A blank keyword yields an
// empty result without a call.
func (t *Translator) SearchNicknames(ctx context.Context, keyword string) (any, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return emptyResult(), nil
	}
	return t.query(ctx, pathNicknameSearch, url.Values{"nickname": {keyword}})
}

func positiveIDs(ids []models.LooseInt) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if v, ok := id.Positive(); ok {
			out = append(out, v)
		}
	}
	return out
}

func idRows(ids []int64) []models.IDRow {
	rows := make([]models.IDRow, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, models.IDRow{ID: id})
	}
	return rows
}
