package app

import (
	"net/http"

	"github.com/JaimeStill/topk/internal/endpoint"
	"github.com/JaimeStill/topk/internal/predict"
	"github.com/JaimeStill/topk/internal/results"
	"github.com/JaimeStill/topk/internal/session"
	"github.com/JaimeStill/topk/internal/workflow"
)

// Page is the view model for the index template.
type Page struct {
	Title       string
	Subtitle    string
	Status      workflow.Status
	APIBase     string
	Remembered  string
	File        *File
	Result      *predict.Prediction
	Bars        []results.Bar
	Error       string
	Notice      string
	CanClassify bool
	Loading     bool
}

// File describes the current selection.
type File struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	PreviewURL  string `json:"preview_url"`
}

// StateResponse is the JSON form of a session.
type StateResponse struct {
	Status      workflow.Status     `json:"status"`
	APIBase     string              `json:"api_base"`
	File        *File               `json:"file,omitempty"`
	Result      *predict.Prediction `json:"result,omitempty"`
	Bars        []results.Bar       `json:"bars,omitempty"`
	Error       string              `json:"error,omitempty"`
	CanClassify bool                `json:"can_classify"`
	Loading     bool                `json:"loading"`
}

func (h *Handler) page(r *http.Request, snap session.Snapshot, notice string) Page {
	st := snap.State
	p := Page{
		Title:       h.title,
		Subtitle:    h.subtitle,
		Status:      st.Status(),
		APIBase:     snap.APIBase,
		Error:       st.Message(),
		Notice:      notice,
		CanClassify: workflow.CanClassify(st),
		Loading:     st.Loading(),
	}

	if v, ok := endpoint.Cookie(r, endpoint.CookieName)(); ok {
		p.Remembered = v
	}

	if sel := st.Selection(); sel != nil {
		p.File = &File{
			Name:        sel.Name,
			ContentType: sel.ContentType,
			Size:        sel.Size(),
			PreviewURL:  h.views.BasePath() + "/preview/" + sel.PreviewKey,
		}
	}

	if res := st.Result(); res != nil {
		p.Result = res
		p.Bars = results.Bars(res.Top)
	}

	return p
}

func (p Page) state() StateResponse {
	return StateResponse{
		Status:      p.Status,
		APIBase:     p.APIBase,
		File:        p.File,
		Result:      p.Result,
		Bars:        p.Bars,
		Error:       p.Error,
		CanClassify: p.CanClassify,
		Loading:     p.Loading,
	}
}
