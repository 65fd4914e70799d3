package lambdakernel

import (
	"context"
	"encoding/json"

	"github.com/gorilla/websocket"
	clog "github.com/vilterp/lambdakernel/pkg/log"
)

type connectionID int

type connection struct {
	clientConn *websocket.Conn
	id         connectionID
	service    *Service
	responses  chan *Response
	writerDone chan struct{}
	context    context.Context
}

func newConnection(wsConn *websocket.Conn, s *Service, ID int) *connection {
	ctx := context.WithValue(s.Ctx(), clog.ConnIDKey, ID)
	conn := &connection{
		clientConn: wsConn,
		id:         connectionID(ID),
		service:    s,
		responses:  make(chan *Response),
		writerDone: make(chan struct{}),
		context:    ctx,
	}
	go conn.writeResponsesToSocket()
	return conn
}

func (conn *connection) Ctx() context.Context {
	return conn.context
}

func (conn *connection) writeResponsesToSocket() {
	defer close(conn.writerDone)
	for resp := range conn.responses {
		writer, err := conn.clientConn.NextWriter(websocket.TextMessage)
		if err != nil {
			clog.Println(conn, "error writing to socket:", err)
			continue
		}
		if err := json.NewEncoder(writer).Encode(resp); err != nil {
			clog.Println(conn, "error writing response to conn: encoding:", err)
		}
		if err := writer.Close(); err != nil {
			clog.Println(conn, "error writing response to conn: closing writer:", err)
		}
	}
}

func (conn *connection) handleRequests() {
	clog.Println(conn, "initiated from", conn.clientConn.RemoteAddr())
	defer func() {
		close(conn.responses)
		<-conn.writerDone
		conn.clientConn.Close()
		conn.service.removeConn(conn)
	}()

	for {
		_, message, readErr := conn.clientConn.ReadMessage()
		if readErr != nil {
			clog.Println(conn, "terminated:", readErr)
			return
		}
		newChannel(message, conn).handleRequest()
	}
}
