// Package server exposes a directory of bindat containers over a read-only
// HTTP API.
package server

import (
	"context"
	"errors"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/arloliu/bindat/container"
	"github.com/arloliu/bindat/errs"
	"github.com/arloliu/bindat/internal/hash"
	"github.com/arloliu/bindat/store"
)

// HeaderFingerprint carries the container fingerprint on raw downloads.
const HeaderFingerprint = "X-Bindat-Fingerprint"

// Server serves the containers stored directly inside one directory.
type Server struct {
	dir         string
	logger      zerolog.Logger
	decoderOpts []container.DecoderOption
	echo        *echo.Echo
}

// New creates a server for dir with its routes and middleware registered.
func New(dir string, logger zerolog.Logger, opts ...container.DecoderOption) *Server {
	s := &Server{
		dir:         dir,
		logger:      logger,
		decoderOpts: opts,
	}

	e := echo.New()
	e.Use(RequestLogger(logger))
	e.Use(middleware.Recover())
	s.Register(e)
	s.echo = e

	return s
}

// Register adds the container routes to e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/v1/containers", s.handleList)
	e.GET("/v1/containers/:name", s.handleInfo)
	e.GET("/v1/containers/:name/datasets/:index", s.handleDataset)
	e.GET("/v1/containers/:name/raw", s.handleRaw)
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string, readTimeout time.Duration) error {
	s.logger.Info().Str("address", addr).Str("dir", s.dir).Msg("starting server")

	sc := echo.StartConfig{
		Address: addr,
		BeforeServeFunc: func(srv *http.Server) error {
			srv.ReadHeaderTimeout = readTimeout
			return nil
		},
	}
	if err := sc.Start(ctx, s.echo); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// ContainerList is the response of GET /v1/containers.
type ContainerList struct {
	Containers []string `json:"containers"`
}

// ContainerInfo is the response of GET /v1/containers/:name.
type ContainerInfo struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	Compression string `json:"compression"`
	Fingerprint string `json:"fingerprint"`
	Metadata    any    `json:"metadata"`
	Datasets    []int  `json:"datasets"`
	TotalValues int    `json:"total_values"`
}

// DatasetResponse is the response of GET /v1/containers/:name/datasets/:index.
type DatasetResponse struct {
	Index  int       `json:"index"`
	Length int       `json:"length"`
	Values []float64 `json:"values"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (s *Server) handleList(c *echo.Context) error {
	names, err := store.List(s.dir)
	if err != nil {
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}

	return c.JSON(http.StatusOK, ContainerList{Containers: names})
}

func (s *Server) handleInfo(c *echo.Context) error {
	name := c.Param("name")
	cont, info, ok, err := s.load(c, name)
	if !ok {
		return err
	}

	sum, err := container.Fingerprint(cont)
	if err != nil {
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}

	lengths := make([]int, cont.Len())
	for i, ds := range cont.Datasets {
		lengths[i] = len(ds)
	}

	return c.JSON(http.StatusOK, ContainerInfo{
		Name:        name,
		Size:        info.Size,
		Compression: info.Compression.String(),
		Fingerprint: hash.Hex(sum),
		Metadata:    cont.Metadata,
		Datasets:    lengths,
		TotalValues: cont.TotalValues(),
	})
}

func (s *Server) handleDataset(c *echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		return writeBadRequest(c, "dataset index must be a non-negative integer")
	}

	cont, _, ok, err := s.load(c, c.Param("name"))
	if !ok {
		return err
	}

	values, found := cont.Dataset(index)
	if !found {
		return writeNotFound(c, "dataset "+strconv.Itoa(index)+" does not exist")
	}

	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return writeError(c, http.StatusUnprocessableEntity, "non_finite_value",
				"value "+strconv.Itoa(i)+" is not finite and has no JSON representation; use the raw endpoint")
		}
	}

	return c.JSON(http.StatusOK, DatasetResponse{Index: index, Length: len(values), Values: values})
}

func (s *Server) handleRaw(c *echo.Context) error {
	cont, _, ok, err := s.load(c, c.Param("name"))
	if !ok {
		return err
	}

	data, err := container.Marshal(cont)
	if err != nil {
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}

	c.Response().Header().Set(HeaderFingerprint, hash.Hex(hash.Bytes(data)))

	return c.Blob(http.StatusOK, echo.MIMEOctetStream, data)
}

// load resolves and decodes the named container. When ok is false the error
// response has already been written and err is the handler's return value.
func (s *Server) load(c *echo.Context, name string) (*container.Container, store.Info, bool, error) {
	if !validName(name) {
		return nil, store.Info{}, false, writeBadRequest(c, "invalid container name")
	}

	cont, info, err := store.ReadFileInfo(filepath.Join(s.dir, name),
		store.WithDecoderOptions(s.decoderOpts...),
		store.WithLogger(s.logger),
	)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, info, false, writeNotFound(c, "container "+name+" not found")
		}

		s.logger.Warn().Err(err).Str("name", name).Msg("failed to read container")

		return nil, info, false, writeError(c, http.StatusInternalServerError, errs.KindOf(err).String(), err.Error())
	}

	return cont, info, true, nil
}

// validName accepts plain container file names inside the served directory.
func validName(name string) bool {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return false
	}

	return store.IsContainerName(name)
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg)
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg)
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return c.JSON(status, ErrorResponse{Error: ErrorDetail{Message: msg, Type: errType}})
}
