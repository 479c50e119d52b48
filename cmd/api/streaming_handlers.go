package main

import (
	"net/http"
	"streamcatalog/proj/internal/domain/fields"
	"streamcatalog/proj/internal/domain/models"
	"streamcatalog/proj/internal/services/streaming"
)

func (app *Application) listStreamingTypes(w http.ResponseWriter, r *http.Request) {
	query := struct {
		Page     int    `schema:"page" validate:"gte=1,lte=10000000"`
		PageSize int    `schema:"page_size" validate:"gte=1,lte=100"`
		Sort     string `schema:"sort" validate:"sortby=id name"`
	}{Page: defaultPage, PageSize: defaultPageSize, Sort: "id"}
	if !app.decodeQuery(w, r, &query) {
		return
	}
	list, metadata, err := app.Services.StreamingTypes.List(r.Context(), newFilters(query.Page, query.PageSize, query.Sort, "id", "name"))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"streamingTypes": list, "metadata": metadata}, "")
}

func (app *Application) getStreamingType(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	st, err := app.Services.StreamingTypes.Get(r.Context(), id)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"streamingType": st}, "")
}

func (app *Application) createStreamingType(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name            string            `json:"name" validate:"required,max=100"`
		Description     string            `json:"description" validate:"max=2000"`
		Thumbnail       string            `json:"thumbnail" validate:"omitempty,url"`
		SupportedGenres fields.GenreInput `json:"supportedGenres"`
	}
	if !app.decodeAndValidate(w, r, &body) {
		return
	}
	st, err := app.Services.StreamingTypes.Create(r.Context(), streaming.CreateParams{
		Name:        body.Name,
		Description: body.Description,
		Thumbnail:   body.Thumbnail,
		Genres:      body.SupportedGenres,
	})
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"streamingType": st}, "")
}

func (app *Application) updateStreamingType(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	var body struct {
		Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
		Description *string `json:"description" validate:"omitempty,max=2000"`
		Thumbnail   *string `json:"thumbnail" validate:"omitempty,url"`
	}
	if !app.decodeAndValidate(w, r, &body) {
		return
	}
	st, err := app.Services.StreamingTypes.Update(r.Context(), id, streaming.UpdateParams{
		Name:        body.Name,
		Description: body.Description,
		Thumbnail:   body.Thumbnail,
	})
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"streamingType": st}, "")
}

func (app *Application) deleteStreamingType(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	if err := app.Services.StreamingTypes.Delete(r.Context(), id); err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}

func (app *Application) addStreamingTypeGenres(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	var body struct {
		SupportedGenres []models.GenreReference `json:"supportedGenres"`
	}
	if !app.decodeAndValidate(w, r, &body) {
		return
	}
	st, err := app.Services.Membership.AddGenres(r.Context(), id, body.SupportedGenres)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"streamingType": st}, "")
}

func (app *Application) removeStreamingTypeGenres(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	var body struct {
		GenresName []string `json:"genresName" validate:"required,min=1"`
	}
	if !app.decodeAndValidate(w, r, &body) {
		return
	}
	st, err := app.Services.Membership.RemoveGenresByName(r.Context(), id, body.GenresName)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"streamingType": st}, "")
}
