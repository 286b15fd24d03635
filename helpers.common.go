package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ContextKey string

const (
	RequestIDPrefix         string     = "r"
	RequestIDHeader         string     = "X-Request-ID"
	RequestIDContextKey     ContextKey = "request.id"
	RequestNumberContextKey ContextKey = "request.number"
)

// BookRequest is the payload of a book creation or replacement. All fields are
// pointers so that a missing field can be told apart from a zero value.
type BookRequest struct {
	Title       *string  `json:"title" validate:"required"`
	Author      *string  `json:"author" validate:"required"`
	Description *string  `json:"description" validate:"required"`
	Price       *float64 `json:"price" validate:"required"`
	Stock       *int     `json:"stock" validate:"required"`
}

// ToBook converts a validated request into a book.
func (br *BookRequest) ToBook() Book {
	return Book{
		Title:       *br.Title,
		Author:      *br.Author,
		Description: *br.Description,
		Price:       *br.Price,
		Stock:       *br.Stock,
	}
}

// NewValidator provides a validator reporting fields by their json name.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// GetValueFromContext returns the value of a given key in the context
// if this key is not available, it returns an empty string.
func GetValueFromContext(ctx context.Context, contextKey ContextKey) string {
	if val := ctx.Value(contextKey); val != nil {
		return val.(string)
	}
	return ""
}

// GetRequestNumberFromContext returns the request number set in
// the context. if not previously set then it returns 0.
func GetRequestNumberFromContext(ctx context.Context) uint64 {
	if val := ctx.Value(RequestNumberContextKey); val != nil {
		return val.(uint64)
	}
	return 0
}

// DecodeAndValidateBookRequest reads the content of a book creation or update
// request and ensures every book field is present.
func DecodeAndValidateBookRequest(r *http.Request, v *validator.Validate) (Book, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return Book{}, errors.New("request body is required")
	}
	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return Book{}, errors.New("request body is required")
		}
		return Book{}, fmt.Errorf("invalid request body: %v", err)
	}

	err := v.Struct(&req)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fe.Field()+" is required")
		}
		return Book{}, errors.New(strings.Join(msgs, ", "))
	}
	if err != nil {
		return Book{}, err
	}
	return req.ToBook(), nil
}

// ParseBookFilter builds the search filter from the query string. Empty
// parameters are ignored. Prices must be finite numbers.
func ParseBookFilter(q url.Values) (BookFilter, error) {
	filter := BookFilter{
		Title:  q.Get("title"),
		Author: q.Get("author"),
	}
	var err error
	if filter.MinPrice, err = parsePrice(q, "min_price"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = parsePrice(q, "max_price"); err != nil {
		return filter, err
	}
	return filter, nil
}

func parsePrice(q url.Values, name string) (*float64, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%s must be a valid number", name)
	}
	return &v, nil
}

// GetRequestSourceIP helps find the source IP of the caller.
func GetRequestSourceIP(r *http.Request) string {
	// Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip
	}

	// Get IP from X-FORWARDED-FOR header
	ips := r.Header.Get("X-FORWARDED-FOR")
	splitIps := strings.Split(ips, ",")
	for _, ip := range splitIps {
		ip = strings.TrimSpace(ip)
		netIP = net.ParseIP(ip)
		if netIP != nil {
			return ip
		}
	}

	// Get IP from RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return ""
	}
	netIP = net.ParseIP(ip)
	if netIP != nil {
		return ip
	}
	return ""
}

// IsAppRunningInDocker checks the existence of the .dockerenv
// file at the root directory and returns a boolean result. This
// helps know if the App is running in a docker container or not.
func IsAppRunningInDocker() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return false
}
