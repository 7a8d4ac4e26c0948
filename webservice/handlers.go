package webservice

import (
	"bytes"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/nickng/dinephil/graph"
	"github.com/nickng/dinephil/protocol"
	"golang.org/x/net/websocket"
)

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<table>
<tr><th>Philosopher</th><th>State</th><th>Chopsticks</th><th>Meals</th><th>Failed attempts</th></tr>
{{range .Table.Philosophers}}<tr><td>{{.ID}}</td><td>{{.State}}</td><td>{{.Left}}, {{.Right}}</td><td>{{.Meals}}</td><td>{{.Failed}}</td></tr>
{{end}}</table>
<p>Chopsticks in use:{{range $i, $u := .Table.Chopsticks}}{{if $u}} {{$i}}{{end}}{{end}}</p>
<p><a href="/state">state</a> | <a href="/dot">dot</a> | <a href="/cfsm">cfsm</a> | <a href="/fairness">fairness</a> | events on ws://{{.Host}}/events</p>
</body>
</html>
`))

func (s *Server) indexHandler(w http.ResponseWriter, req *http.Request) {
	if req.URL.Path != "/" {
		http.NotFound(w, req)
		return
	}
	data := struct {
		Title string
		Host  string
		Table interface{}
	}{
		Title: "Dining philosophers",
		Host:  req.Host,
		Table: s.snapshot.Table(),
	}
	buf := new(bytes.Buffer)
	if err := indexTmpl.Execute(buf, data); err != nil {
		NewErrInternal(err, "Template execute failed").Report(w, s.Logger)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (s *Server) stateHandler(w http.ResponseWriter, req *http.Request) {
	s.writeJSON(w, s.snapshot.Table())
}

func (s *Server) dotHandler(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	graph.NewGraphvizDot(s.snapshot.Table()).WriteTo(w)
}

func (s *Server) cfsmHandler(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	protocol.NewCFSMs(s.size).WriteTo(w)
}

func (s *Server) fairnessHandler(w http.ResponseWriter, req *http.Request) {
	if s.fair == nil {
		http.Error(w, "Fairness report disabled", http.StatusNotFound)
		return
	}
	s.writeJSON(w, s.fair.Report())
}

func (s *Server) eventsHandler(ws *websocket.Conn) {
	events, unsubscribe := s.hub.Subscribe()
	defer unsubscribe()
	s.Logger.Println("Events subscriber connected:", ws.Request().RemoteAddr)
	for e := range events {
		if err := websocket.JSON.Send(ws, e); err != nil {
			s.Logger.Println("Events subscriber gone:", err)
			return
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		NewErrInternal(err, "Cannot encode reply").Report(w, s.Logger)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(b)
}
