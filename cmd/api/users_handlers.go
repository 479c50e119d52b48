package main

import (
	"net/http"
	"streamcatalog/proj/internal/services/users"
)

func (app *Application) signup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username" validate:"required,min=3,max=50"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8,max=72"`
	}
	if !app.decodeAndValidate(w, r, &body) {
		return
	}
	user, err := app.Services.Auth.Signup(r.Context(), body.Email, body.Username, body.Password)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"user": user}, "")
}

func (app *Application) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if !app.decodeAndValidate(w, r, &body) {
		return
	}
	tokens, err := app.Services.Auth.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"tokens": tokens}, "")
}

func (app *Application) getCurrentUser(w http.ResponseWriter, r *http.Request) {
	app.Http.Ok(w, r, envelop{"user": app.contextGetUser(r)}, "")
}

func (app *Application) updatePreferences(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FavoriteGenres []int `json:"favoriteGenres" validate:"dive,gte=1"`
	}
	if !app.decodeAndValidate(w, r, &body) {
		return
	}
	user, err := app.Services.Users.UpdatePreferences(r.Context(), app.contextGetUser(r).ID, body.FavoriteGenres)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "")
}

func (app *Application) recordView(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ContentID      int64 `json:"content_id" validate:"required,gte=1"`
		MinutesWatched int32 `json:"minutes_watched" validate:"gte=0"`
		Completed      bool  `json:"completed"`
	}
	if !app.decodeAndValidate(w, r, &body) {
		return
	}
	entry, err := app.Services.Users.RecordView(r.Context(), app.contextGetUser(r).ID, users.RecordViewParams{
		ContentID:      body.ContentID,
		MinutesWatched: body.MinutesWatched,
		Completed:      body.Completed,
	})
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"entry": entry}, "")
}

func (app *Application) getHistory(w http.ResponseWriter, r *http.Request) {
	query := struct {
		Page     int `schema:"page" validate:"gte=1,lte=10000000"`
		PageSize int `schema:"page_size" validate:"gte=1,lte=100"`
	}{Page: defaultPage, PageSize: defaultPageSize}
	if !app.decodeQuery(w, r, &query) {
		return
	}
	history, metadata, err := app.Services.Users.History(
		r.Context(),
		app.contextGetUser(r).ID,
		newFilters(query.Page, query.PageSize, ""),
	)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"history": history, "metadata": metadata}, "")
}

func (app *Application) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := app.Services.Users.Stats(r.Context(), app.contextGetUser(r).ID)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"stats": stats}, "")
}
