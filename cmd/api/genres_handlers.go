package main

import (
	"net/http"
	"streamcatalog/proj/internal/services/genres"

	"github.com/go-chi/chi/v5"
)

func (app *Application) listGenres(w http.ResponseWriter, r *http.Request) {
	list, err := app.Services.Genres.List(r.Context())
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"genres": list}, "")
}

func (app *Application) getGenre(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	genre, err := app.Services.Genres.Get(r.Context(), int(id))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"genre": genre}, "")
}

func (app *Application) getGenreByName(w http.ResponseWriter, r *http.Request) {
	genre, err := app.Services.Genres.GetByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"genre": genre}, "")
}

func (app *Application) createGenre(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID     int    `json:"id" validate:"required,gte=1"`
		Name   string `json:"name" validate:"required,max=100"`
		Poster string `json:"poster" validate:"omitempty,url"`
	}
	if !app.decodeAndValidate(w, r, &body) {
		return
	}
	genre, err := app.Services.Genres.Create(r.Context(), body.ID, body.Name, body.Poster)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"genre": genre}, "")
}

func (app *Application) updateGenre(w http.ResponseWriter, r *http.Request) {
	refID, ok := app.extractRefIDParam(w, r)
	if !ok {
		return
	}
	var body struct {
		Name   *string `json:"name" validate:"omitempty,max=100"`
		Poster *string `json:"poster" validate:"omitempty,url"`
	}
	if !app.decodeAndValidate(w, r, &body) {
		return
	}
	genre, err := app.Services.Genres.Update(r.Context(), refID, genres.UpdateParams{
		Name:   body.Name,
		Poster: body.Poster,
	})
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"genre": genre}, "")
}

func (app *Application) deleteGenre(w http.ResponseWriter, r *http.Request) {
	refID, ok := app.extractRefIDParam(w, r)
	if !ok {
		return
	}
	if err := app.Services.Genres.Delete(r.Context(), refID); err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}

func (app *Application) syncGenres(w http.ResponseWriter, r *http.Request) {
	result, err := app.Services.Genres.Sync(r.Context())
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"sync": result}, "")
}
