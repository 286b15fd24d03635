package main

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// CreateBook godoc
//
//	@Summary	Create a book
//	@Tags		books
//	@Accept		json
//	@Produce	json
//	@Param		book	body		BookRequest	true	"book to create"
//	@Success	200		{object}	CreateBookResponse
//	@Failure	422		{object}	APIError
//	@Failure	500		{object}	APIError
//	@Router		/books [post]
func (api *APIHandler) CreateBook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	logger := api.GetLoggerFromContext(r.Context())
	api.limitBody(w, r)
	book, err := DecodeAndValidateBookRequest(r, api.validate)
	if err != nil {
		logger.Error("failed to create book", zap.Error(err))
		api.sendError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := api.bookService.Add(r.Context(), book)
	if err != nil {
		logger.Error("failed to create book", zap.Error(err))
		api.sendError(w, r, http.StatusInternalServerError, "Failed to create book")
		return
	}
	logger.Info("success to create book", zap.String("book.id", id))
	api.sendResponse(w, r, http.StatusOK, CreateBookResponse{Message: "Book created successfully", BookID: id})
}

// GetAllBooks godoc
//
//	@Summary	List all books
//	@Tags		books
//	@Produce	json
//	@Success	200	{array}		StoredBook
//	@Failure	500	{object}	APIError
//	@Router		/books [get]
func (api *APIHandler) GetAllBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	logger := api.GetLoggerFromContext(r.Context())
	books, err := api.bookService.GetAll(r.Context())
	if err != nil {
		logger.Error("failed to get all books", zap.Error(err))
		api.sendError(w, r, http.StatusInternalServerError, "Failed to fetch books")
		return
	}
	logger.Info("success to get all books", zap.Int("books.total", len(books)))
	api.sendResponse(w, r, http.StatusOK, books)
}

// GetOneBook godoc
//
//	@Summary	Fetch a book
//	@Tags		books
//	@Produce	json
//	@Param		id	path		string	true	"book id"
//	@Success	200	{object}	StoredBook
//	@Failure	400	{object}	APIError
//	@Failure	404	{object}	APIError
//	@Failure	500	{object}	APIError
//	@Router		/books/{id} [get]
func (api *APIHandler) GetOneBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	logger := api.GetLoggerFromContext(r.Context())
	id := ps.ByName("id")
	if ok := api.idsHandler.IsValid(id); !ok {
		logger.Error("book id provided is not valid", zap.String("book.id", id))
		api.sendError(w, r, http.StatusBadRequest, "Invalid book_id")
		return
	}

	book, err := api.bookService.GetOne(r.Context(), id)
	switch {
	case err == nil:
	case errors.Is(err, ErrBookNotFound):
		logger.Error("book does not exist", zap.String("book.id", id))
		api.sendError(w, r, http.StatusNotFound, "Book not found")
		return
	case errors.Is(err, ErrInvalidBookID):
		logger.Error("book id provided is not valid", zap.String("book.id", id))
		api.sendError(w, r, http.StatusBadRequest, "Invalid book_id")
		return
	default:
		logger.Error("failed to get book", zap.String("book.id", id), zap.Error(err))
		api.sendError(w, r, http.StatusInternalServerError, "Failed to fetch book")
		return
	}
	logger.Info("success to get book", zap.String("book.id", id))
	api.sendResponse(w, r, http.StatusOK, book)
}

// UpdateBook godoc
//
//	@Summary	Replace a book
//	@Tags		books
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string		true	"book id"
//	@Param		book	body		BookRequest	true	"new book content"
//	@Success	200		{object}	MessageResponse
//	@Failure	400		{object}	APIError
//	@Failure	404		{object}	APIError
//	@Failure	422		{object}	APIError
//	@Failure	500		{object}	APIError
//	@Router		/books/{id} [put]
func (api *APIHandler) UpdateBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	logger := api.GetLoggerFromContext(r.Context())
	id := ps.ByName("id")
	if ok := api.idsHandler.IsValid(id); !ok {
		logger.Error("book id provided is not valid", zap.String("book.id", id))
		api.sendError(w, r, http.StatusBadRequest, "Invalid book_id")
		return
	}

	api.limitBody(w, r)
	book, err := DecodeAndValidateBookRequest(r, api.validate)
	if err != nil {
		logger.Error("failed to update book", zap.String("book.id", id), zap.Error(err))
		api.sendError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	err = api.bookService.Update(r.Context(), id, book)
	switch {
	case err == nil:
	case errors.Is(err, ErrBookNotFound):
		logger.Error("book does not exist", zap.String("book.id", id))
		api.sendError(w, r, http.StatusNotFound, "Book not found")
		return
	case errors.Is(err, ErrInvalidBookID):
		logger.Error("book id provided is not valid", zap.String("book.id", id))
		api.sendError(w, r, http.StatusBadRequest, "Invalid book_id")
		return
	default:
		logger.Error("failed to update book", zap.String("book.id", id), zap.Error(err))
		api.sendError(w, r, http.StatusInternalServerError, "Failed to update book")
		return
	}
	logger.Info("success to update book", zap.String("book.id", id))
	api.sendResponse(w, r, http.StatusOK, MessageResponse{Message: "Book updated successfully"})
}

// DeleteOneBook godoc
//
//	@Summary	Delete a book
//	@Tags		books
//	@Produce	json
//	@Param		id	path		string	true	"book id"
//	@Success	200	{object}	MessageResponse
//	@Failure	400	{object}	APIError
//	@Failure	404	{object}	APIError
//	@Failure	500	{object}	APIError
//	@Router		/books/{id} [delete]
func (api *APIHandler) DeleteOneBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	logger := api.GetLoggerFromContext(r.Context())
	id := ps.ByName("id")
	if ok := api.idsHandler.IsValid(id); !ok {
		logger.Error("book id provided is not valid", zap.String("book.id", id))
		api.sendError(w, r, http.StatusBadRequest, "Invalid book_id")
		return
	}

	err := api.bookService.Delete(r.Context(), id)
	switch {
	case err == nil:
	case errors.Is(err, ErrBookNotFound):
		logger.Error("book does not exist", zap.String("book.id", id))
		api.sendError(w, r, http.StatusNotFound, "Book not found")
		return
	case errors.Is(err, ErrInvalidBookID):
		logger.Error("book id provided is not valid", zap.String("book.id", id))
		api.sendError(w, r, http.StatusBadRequest, "Invalid book_id")
		return
	default:
		logger.Error("failed to delete book", zap.String("book.id", id), zap.Error(err))
		api.sendError(w, r, http.StatusInternalServerError, "Failed to delete book")
		return
	}
	logger.Info("success to delete book", zap.String("book.id", id))
	api.sendResponse(w, r, http.StatusOK, MessageResponse{Message: "Book deleted successfully"})
}

// SearchBooks godoc
//
//	@Summary	Search books
//	@Tags		books
//	@Produce	json
//	@Param		title		query		string	false	"case-insensitive title substring"
//	@Param		author		query		string	false	"case-insensitive author substring"
//	@Param		min_price	query		number	false	"inclusive lower price bound"
//	@Param		max_price	query		number	false	"inclusive upper price bound"
//	@Success	200			{array}		StoredBook
//	@Failure	422			{object}	APIError
//	@Failure	500			{object}	APIError
//	@Router		/search [get]
func (api *APIHandler) SearchBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	logger := api.GetLoggerFromContext(r.Context())
	filter, err := ParseBookFilter(r.URL.Query())
	if err != nil {
		logger.Error("failed to parse search query", zap.String("request.query", r.URL.RawQuery), zap.Error(err))
		api.sendError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	books, err := api.bookService.Search(r.Context(), filter)
	if err != nil {
		logger.Error("failed to search books", zap.String("request.query", r.URL.RawQuery), zap.Error(err))
		api.sendError(w, r, http.StatusInternalServerError, "Failed to search books")
		return
	}
	logger.Info("success to search books", zap.Int("books.total", len(books)))
	api.sendResponse(w, r, http.StatusOK, books)
}

// GetBooksStatistics godoc
//
//	@Summary	Catalog statistics
//	@Tags		aggregation
//	@Produce	json
//	@Success	200	{object}	BookStatistics
//	@Failure	500	{object}	APIError
//	@Router		/aggregation/stats [get]
func (api *APIHandler) GetBooksStatistics(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	logger := api.GetLoggerFromContext(r.Context())
	stats, err := api.bookService.Statistics(r.Context())
	if err != nil {
		logger.Error("failed to compute books statistics", zap.Error(err))
		api.sendError(w, r, http.StatusInternalServerError, "Failed to fetch statistics")
		return
	}
	api.sendResponse(w, r, http.StatusOK, stats)
}

// limitBody caps the size of the request body to the configured value.
func (api *APIHandler) limitBody(w http.ResponseWriter, r *http.Request) {
	if r.Body == nil {
		return
	}
	limit := int64(1 << 20)
	if api.config != nil && api.config.Server.MaxBodyBytes > 0 {
		limit = api.config.Server.MaxBodyBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
}

func (api *APIHandler) sendError(w http.ResponseWriter, r *http.Request, status int, detail string) {
	if err := WriteErrorResponse(r.Context(), w, NewAPIError(status, detail)); err != nil {
		api.GetLoggerFromContext(r.Context()).Error("failed to send error response", zap.Error(err))
	}
}

func (api *APIHandler) sendResponse(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if err := WriteResponse(r.Context(), w, status, data); err != nil {
		api.GetLoggerFromContext(r.Context()).Error("failed to send response", zap.Error(err))
	}
}
