package main

import (
	"net/http"
	"streamcatalog/proj/internal/domain/fields"
	"streamcatalog/proj/internal/domain/filters"
	"streamcatalog/proj/internal/services/content"
)

var contentSortSafelist = []string{"id", "title", "release_year", "runtime", "created_at"}

type contentBody struct {
	Kind        string            `json:"kind" validate:"omitempty,oneof=movie series"`
	Title       string            `json:"title" validate:"required,max=500"`
	Description string            `json:"description" validate:"max=5000"`
	ReleaseYear int32             `json:"release_year" validate:"omitempty,gte=1888"`
	Runtime     fields.Runtime    `json:"runtime" validate:"gte=0"`
	Seasons     int32             `json:"seasons" validate:"gte=0"`
	Poster      string            `json:"poster" validate:"omitempty,url"`
	Genre       fields.GenreInput `json:"genre"`
}

func (b contentBody) params() content.CreateParams {
	return content.CreateParams{
		Kind:        b.Kind,
		Title:       b.Title,
		Description: b.Description,
		ReleaseYear: b.ReleaseYear,
		Runtime:     b.Runtime,
		Seasons:     b.Seasons,
		Poster:      b.Poster,
		Genre:       b.Genre,
	}
}

func (app *Application) listContents(w http.ResponseWriter, r *http.Request) {
	query := struct {
		Title    string `schema:"title"`
		Kind     string `schema:"kind" validate:"omitempty,oneof=movie series"`
		Genre    int    `schema:"genre" validate:"gte=0"`
		Page     int    `schema:"page" validate:"gte=1,lte=10000000"`
		PageSize int    `schema:"page_size" validate:"gte=1,lte=100"`
		Sort     string `schema:"sort" validate:"sortby=id title release_year runtime created_at"`
	}{Page: defaultPage, PageSize: defaultPageSize, Sort: "id"}
	if !app.decodeQuery(w, r, &query) {
		return
	}
	list, metadata, err := app.Services.Contents.List(
		r.Context(),
		filters.ContentFilter{Title: query.Title, Kind: query.Kind, GenreID: query.Genre},
		newFilters(query.Page, query.PageSize, query.Sort, contentSortSafelist...),
	)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"contents": list, "metadata": metadata}, "")
}

func (app *Application) getContent(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	c, err := app.Services.Contents.Get(r.Context(), id)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"content": c}, "")
}

func (app *Application) createContent(w http.ResponseWriter, r *http.Request) {
	var body contentBody
	if !app.decodeAndValidate(w, r, &body) {
		return
	}
	c, err := app.Services.Contents.Create(r.Context(), body.params())
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"content": c}, "")
}

func (app *Application) createContents(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Contents []contentBody `json:"contents" validate:"required,min=1,max=500,dive"`
	}
	if !app.decodeAndValidate(w, r, &body) {
		return
	}
	params := make([]content.CreateParams, 0, len(body.Contents))
	for _, c := range body.Contents {
		params = append(params, c.params())
	}
	created, err := app.Services.Contents.InsertMany(r.Context(), params)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"contents": created}, "")
}

func (app *Application) updateContent(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	var body struct {
		Title       *string            `json:"title" validate:"omitempty,min=1,max=500"`
		Description *string            `json:"description" validate:"omitempty,max=5000"`
		ReleaseYear *int32             `json:"release_year" validate:"omitempty,gte=1888"`
		Runtime     *fields.Runtime    `json:"runtime" validate:"omitempty,gte=0"`
		Seasons     *int32             `json:"seasons" validate:"omitempty,gte=0"`
		Poster      *string            `json:"poster" validate:"omitempty,url"`
		Genre       *fields.GenreInput `json:"genre"`
	}
	if !app.decodeAndValidate(w, r, &body) {
		return
	}
	c, err := app.Services.Contents.Update(r.Context(), id, content.UpdateParams{
		Title:       body.Title,
		Description: body.Description,
		ReleaseYear: body.ReleaseYear,
		Runtime:     body.Runtime,
		Seasons:     body.Seasons,
		Poster:      body.Poster,
		Genre:       body.Genre,
	})
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"content": c}, "")
}

func (app *Application) deleteContent(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	if err := app.Services.Contents.Delete(r.Context(), id); err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}
