package server

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crimson-sun/canlog/internal/addressbook"
	"github.com/crimson-sun/canlog/internal/connector"
	"github.com/crimson-sun/canlog/internal/engine/parser"
	"github.com/crimson-sun/canlog/internal/model"
	"github.com/crimson-sun/canlog/internal/output/table"
	"github.com/crimson-sun/canlog/internal/output/workbook"
	"github.com/crimson-sun/canlog/internal/pipeline"
)

var (
	ErrMissingLog  = errors.New("server: missing multipart file \"log\"")
	ErrNoWorkbook  = errors.New("server: no workbook uploaded and no default address book loaded")
	ErrUnknownType = errors.New("server: unknown format")
)

// Response formats.
const (
	formatJSON = "json"
	formatCSV  = "csv"
	formatXLSX = "xlsx"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// decode handles POST /api/v1/decode. The body is multipart with a "log"
// file and an optional "workbook" file; form fields "machine" and
// "dialect" override the configured defaults, and the query parameter
// "format" selects json (default), csv or xlsx.
func (s *Server) decode(c *gin.Context) {
	format := c.DefaultQuery("format", formatJSON)
	if format != formatJSON && format != formatCSV && format != formatXLSX {
		badRequest(c, fmt.Errorf("%w %q", ErrUnknownType, format))
		return
	}

	machine, err := model.ParseMachineClass(c.DefaultPostForm("machine", s.cfg.Decode.Machine))
	if err != nil {
		badRequest(c, err)
		return
	}
	p, err := parser.ForDialect(c.DefaultPostForm("dialect", s.cfg.Decode.Dialect))
	if err != nil {
		badRequest(c, err)
		return
	}
	book, err := s.requestBook(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	lines, err := readLog(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	pl := pipeline.New(book, machine, p)
	c.Header(SessionHeader, pl.SessionID())

	res, err := pl.RunLinesParallel(c.Request.Context(), lines, s.cfg.Decode.Workers)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	empty := s.cfg.Output.EmptyMarker
	switch format {
	case formatCSV:
		c.Header("Content-Disposition", `attachment; filename="records.csv"`)
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Status(http.StatusOK)
		if err := table.Render(c.Writer, res.Records, empty); err != nil {
			c.Error(err)
		}
	case formatXLSX:
		f, err := workbook.Build(res.Side(model.SideRight), res.Side(model.SideLeft), empty)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer f.Close()
		c.Header("Content-Disposition", `attachment; filename="lifts.xlsx"`)
		c.Header("Content-Type", xlsxContentType)
		c.Status(http.StatusOK)
		if err := f.Write(c.Writer); err != nil {
			c.Error(err)
		}
	default:
		c.JSON(http.StatusOK, res)
	}
}

// requestBook loads the uploaded workbook, falling back to the default book.
func (s *Server) requestBook(c *gin.Context) (*addressbook.Book, error) {
	fh, err := c.FormFile("workbook")
	if errors.Is(err, http.ErrMissingFile) {
		if s.book == nil {
			return nil, ErrNoWorkbook
		}
		return s.book, nil
	}
	if err != nil {
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return addressbook.LoadWorkbook(f)
}

func readLog(c *gin.Context) ([]model.Line, error) {
	fh, err := c.FormFile("log")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, ErrMissingLog
	}
	if err != nil {
		return nil, err
	}
	return readLines(c, fh)
}

func readLines(c *gin.Context, fh *multipart.FileHeader) ([]model.Line, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lines, err := connector.ReadLines(c.Request.Context(), f, connector.QueryParams{})
	if err != nil {
		return nil, fmt.Errorf("server: read log: %w", err)
	}
	return lines, nil
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
