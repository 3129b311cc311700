package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"github.com/mmynk/splitledger/pkg/api"
)

const GroupServiceName = "splitledger.v1.GroupService"

const (
	GroupServiceCreateGroupProcedure    = "/splitledger.v1.GroupService/CreateGroup"
	GroupServiceListGroupsProcedure     = "/splitledger.v1.GroupService/ListGroups"
	GroupServiceGetGroupProcedure       = "/splitledger.v1.GroupService/GetGroup"
	GroupServiceGetGroupLedgerProcedure = "/splitledger.v1.GroupService/GetGroupLedger"
)

type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	GetGroupLedger(context.Context, *connect.Request[api.GetGroupLedgerRequest]) (*connect.Response[api.GetGroupLedgerResponse], error)
}

// NewGroupServiceHandler returns the service path prefix and its handler.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	rs := routes{}
	unary(rs, GroupServiceCreateGroupProcedure, svc.CreateGroup, opts)
	unary(rs, GroupServiceListGroupsProcedure, svc.ListGroups, opts)
	unary(rs, GroupServiceGetGroupProcedure, svc.GetGroup, opts)
	unary(rs, GroupServiceGetGroupLedgerProcedure, svc.GetGroupLedger, opts)
	return "/" + GroupServiceName + "/", rs
}

type UnimplementedGroupServiceHandler struct{}

func (UnimplementedGroupServiceHandler) CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return nil, unimplemented(GroupServiceCreateGroupProcedure)
}

func (UnimplementedGroupServiceHandler) ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return nil, unimplemented(GroupServiceListGroupsProcedure)
}

func (UnimplementedGroupServiceHandler) GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return nil, unimplemented(GroupServiceGetGroupProcedure)
}

func (UnimplementedGroupServiceHandler) GetGroupLedger(context.Context, *connect.Request[api.GetGroupLedgerRequest]) (*connect.Response[api.GetGroupLedgerResponse], error) {
	return nil, unimplemented(GroupServiceGetGroupLedgerProcedure)
}

type GroupServiceClient interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	GetGroupLedger(context.Context, *connect.Request[api.GetGroupLedgerRequest]) (*connect.Response[api.GetGroupLedgerResponse], error)
}

type groupServiceClient struct {
	createGroup    *connect.Client[api.CreateGroupRequest, api.CreateGroupResponse]
	listGroups     *connect.Client[api.ListGroupsRequest, api.ListGroupsResponse]
	getGroup       *connect.Client[api.GetGroupRequest, api.GetGroupResponse]
	getGroupLedger *connect.Client[api.GetGroupLedgerRequest, api.GetGroupLedgerResponse]
}

// NewGroupServiceClient constructs a client for the GroupService at baseURL.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &groupServiceClient{
		createGroup:    newClient[api.CreateGroupRequest, api.CreateGroupResponse](httpClient, baseURL, GroupServiceCreateGroupProcedure, opts),
		listGroups:     newClient[api.ListGroupsRequest, api.ListGroupsResponse](httpClient, baseURL, GroupServiceListGroupsProcedure, opts),
		getGroup:       newClient[api.GetGroupRequest, api.GetGroupResponse](httpClient, baseURL, GroupServiceGetGroupProcedure, opts),
		getGroupLedger: newClient[api.GetGroupLedgerRequest, api.GetGroupLedgerResponse](httpClient, baseURL, GroupServiceGetGroupLedgerProcedure, opts),
	}
}

func (c *groupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroupLedger(ctx context.Context, req *connect.Request[api.GetGroupLedgerRequest]) (*connect.Response[api.GetGroupLedgerResponse], error) {
	return c.getGroupLedger.CallUnary(ctx, req)
}
