package result

// Response is the wire-shaped form of an execution: data plus a flat error
// list, the way a transport layer serializes it.
type Response struct {
	Data   any            `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

// Response materializes the execution into response data. Node errors are
// collected depth-first in response order after the execution's own errors.
// A node carrying errors contributes null data, so a denied object shows up
// as null plus its error entry and nothing of its subtree leaks through.
func (e *Execution) Response() *Response {
	resp := &Response{}
	resp.Errors = append(resp.Errors, e.Errors...)
	if e.Root == nil {
		return resp
	}
	resp.Data = materialize(e.Root, &resp.Errors)
	return resp
}

func materialize(n *Node, errs *[]GraphQLError) any {
	switch n.Kind {
	case KindRoot:
		data := make(map[string]any, len(n.Fields))
		for _, f := range n.Fields {
			data[f.Name] = materialize(f, errs)
		}
		return data
	case KindObject:
		if len(n.Errors) > 0 {
			*errs = append(*errs, n.Errors...)
			return nil
		}
		data := make(map[string]any, len(n.Fields))
		for _, f := range n.Fields {
			data[f.Name] = materialize(f, errs)
		}
		return data
	case KindList:
		data := make([]any, len(n.Values))
		for i, v := range n.Values {
			data[i] = materialize(v, errs)
		}
		return data
	case KindLeaf:
		return n.Value
	case KindIntrospection:
		// Introspection payloads are resolved by the engine; passes in
		// between carry the node through opaquely.
		return n.Value
	}
	return nil
}
