package lambdakernel

import (
	"context"
	"encoding/json"

	clog "github.com/vilterp/lambdakernel/pkg/log"
	"go.uber.org/zap"
)

// channel is the handling of one request on a connection.
type channel struct {
	connection *connection
	rawRequest []byte

	context context.Context
}

func (channel *channel) Ctx() context.Context {
	return channel.context
}

func newChannel(rawRequest []byte, conn *connection) *channel {
	return &channel{
		connection: conn,
		rawRequest: rawRequest,
		context:    conn.Ctx(),
	}
}

func (channel *channel) handleRequest() {
	req := &Request{}
	if err := json.Unmarshal(channel.rawRequest, req); err != nil {
		perr := &parseError{error: err}
		clog.Println(channel, perr.Error())
		channel.writeResponse(&Response{Error: perr.Error()})
		return
	}
	channel.context = context.WithValue(channel.context, clog.RequestIDKey, req.ID)

	resp := channel.connection.service.Handle(channel.context, req)
	if resp.Error != "" {
		clog.With(channel).Info("request failed", zap.String("op", string(req.Op)), zap.String("error", resp.Error))
	}
	channel.writeResponse(resp)
}

func (channel *channel) writeResponse(resp *Response) {
	channel.connection.responses <- resp
}
