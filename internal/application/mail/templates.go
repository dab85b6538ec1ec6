package mail

import "html/template"

// Plantillas HTML de los correos del dominio. Se parsean una sola vez.
var (
	tplOrderConfirmation = template.Must(template.New("order-confirmation").Parse(`
<h2>¡Gracias por tu compra, {{.Nombre}}!</h2>
<p>Tu pedido <strong>#{{.Codigo}}</strong> fue recibido el {{.Fecha}}.</p>
<table>
  <tr><th>Producto</th><th>Cantidad</th><th>Precio</th></tr>
  {{range .Items}}<tr><td>{{.Nombre}}</td><td>{{.Cantidad}}</td><td>${{.Precio}}</td></tr>{{end}}
</table>
<p>Total: <strong>${{.Total}}</strong></p>
<p>Dirección de envío: {{.Direccion}}</p>`))

	tplOrderStatus = template.Must(template.New("order-status-update").Parse(`
<h2>Hola {{.Nombre}}</h2>
<p>Tu pedido <strong>#{{.Codigo}}</strong> cambió de estado: <strong>{{.Estado}}</strong>.</p>
{{if .Vendedor}}<p>Atendido por: {{.Vendedor}}</p>{{end}}
<p>{{.Fecha}}</p>`))

	tplOrderAssigned = template.Must(template.New("order-assigned").Parse(`
<h2>Hola {{.Vendedor}}</h2>
<p>Se te asignó el pedido <strong>#{{.Codigo}}</strong> de {{.Cliente}} por ${{.Total}}.</p>`))

	tplNewOrderAdmin = template.Must(template.New("new-order-admin").Parse(`
<h2>Nuevo pedido recibido</h2>
<p>Pedido <strong>#{{.Codigo}}</strong> de {{.Cliente}} ({{.EmailCliente}}).</p>
<p>{{.TotalItems}} artículo(s), total ${{.Total}}.</p>`))

	tplWelcome = template.Must(template.New("welcome").Parse(`
<h2>¡Bienvenido, {{.Nombre}} {{.Apellido}}!</h2>
<p>Tu cuenta en Tienda CHPC fue creada con éxito.</p>`))
)
