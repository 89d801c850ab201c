package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// StatusError se retorna cuando el servidor responde con un código distinto de 200.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Status Error: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// DoRequest realiza una petición HTTP a ip:port/query y retorna la respuesta del servidor.
// Si el código de la respuesta no es 200 retorna la respuesta junto con un *StatusError.
//
// Ejemplo:
//
//	response, err := client.DoRequest(8002, "127.0.0.1", "GET", "memoria/estado")
//	if err != nil {
//		slog.Error(fmt.Sprintf("Ocurrió un error: %v", err))
//		return
//	}
//	defer response.Body.Close()
func DoRequest(port int, ip string, method string, query string, bodies ...[]byte) (*http.Response, error) {
	url := fmt.Sprintf("http://%s:%d/%s", ip, port, query)

	var body io.Reader
	if len(bodies) > 0 {
		body = bytes.NewReader(bodies[0])
	}

	request, err := http.NewRequest(method, url, body)
	if err != nil {
		slog.Error(fmt.Sprintf("error creando request a ip: %s puerto: %d", ip, port))
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := http.DefaultClient.Do(request)
	if err != nil {
		slog.Error(fmt.Sprintf("error enviando request a ip: %s puerto: %d - %v", ip, port, err))
		return nil, err
	}

	if response.StatusCode != http.StatusOK {
		message, _ := io.ReadAll(response.Body)
		response.Body.Close()
		statusErr := &StatusError{StatusCode: response.StatusCode, Body: string(bytes.TrimSpace(message))}
		slog.Error(statusErr.Error())
		return response, statusErr
	}

	return response, nil
}

// DoJsonRequest envía request serializado como JSON y decodifica la respuesta en response.
// Con request nil no se envía body; con response nil se descarta la respuesta.
func DoJsonRequest(port int, ip string, method string, query string, request any, response any) error {
	var bodies [][]byte
	if request != nil {
		body, err := json.Marshal(request)
		if err != nil {
			return fmt.Errorf("error serializando request: %w", err)
		}
		bodies = append(bodies, body)
	}

	httpResponse, err := DoRequest(port, ip, method, query, bodies...)
	if err != nil {
		return err
	}
	defer httpResponse.Body.Close()

	if response == nil {
		return nil
	}
	if err := json.NewDecoder(httpResponse.Body).Decode(response); err != nil {
		return fmt.Errorf("error decodificando respuesta de %s: %w", query, err)
	}
	return nil
}
