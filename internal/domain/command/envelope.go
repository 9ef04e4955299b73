// internal/domain/command/envelope.go
package command

// Result is the uniform response envelope every handler returns. Business
// failures are data (success=false plus a displayable message), never
// errors; only infrastructure failures escape the dispatcher.
type Result struct {
	Action             string      `json:"action"`
	Success            bool        `json:"success"`
	Message            string      `json:"message"`
	Data               interface{} `json:"data,omitempty"`
	Entity             string      `json:"entity,omitempty"`
	RequiresBillUpload bool        `json:"requiresBillUpload,omitempty"`
	OrderID            uint        `json:"orderId,omitempty"`
	SuggestedProducts  interface{} `json:"suggestedProducts,omitempty"`
	PendingOrders      interface{} `json:"pendingOrders,omitempty"`
}

func success(action ActionType, message string) *Result {
	return &Result{Action: string(action), Success: true, Message: message}
}

func failure(action ActionType, message string) *Result {
	return &Result{Action: string(action), Success: false, Message: message}
}

func listing(action ActionType, message, entity string, data interface{}) *Result {
	return &Result{
		Action:  string(action),
		Success: true,
		Message: message,
		Entity:  entity,
		Data:    data,
	}
}
